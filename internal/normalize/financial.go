package normalize

import (
	"strconv"
	"strings"
)

var financialExtensions = []string{".jpg", ".png", ".gif", ".pdf"}

// Financial cleans a budget or revenue value into a non-negative integer
// amount. Thousands separators and currency symbols are stripped; values
// contaminated with file extensions, unparsable values, and negative
// results all collapse to 0. Exponent notation is parsed as a float and
// truncated.
func Financial(v any) int64 {
	s := AsString(v)
	if s == "" {
		return 0
	}

	s = strings.NewReplacer(",", "", "$", "", "€", "", "£", "").Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	lower := strings.ToLower(s)
	for _, ext := range financialExtensions {
		if strings.Contains(lower, ext) {
			return 0
		}
	}

	var amount int64
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		amount = int64(f)
	} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		amount = n
	} else {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		amount = int64(f)
	}

	if amount < 0 {
		return 0
	}
	return amount
}
