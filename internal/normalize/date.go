package normalize

import (
	"regexp"
	"time"
)

// Candidate layouts tried in order. Non-padded elements also accept
// zero-padded input, so "08/01/1997" and "8/1/1997" both parse.
var dateLayouts = []string{
	"2/1/2006",
	"1/2/2006",
	"2006-1-2",
	"2-1-2006",
	"2006/1/2",
	"2.1.2006",
}

var bareYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Date standardizes a raw date value to YYYY-MM-DD. When no layout matches
// but a plausible four-digit year is present, the year anchors January 1.
// Returns ok=false when nothing recoverable is found; it never errors.
func Date(v any) (string, bool) {
	s := AsString(v)
	if s == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	if year := bareYear.FindString(s); year != "" {
		return year + "-01-01", true
	}
	return "", false
}
