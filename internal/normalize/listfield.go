package normalize

import (
	"regexp"
	"strings"
)

// namePattern matches the value of a "name" key in either quoting style,
// covering both real JSON and the single-quoted pseudo-JSON common in movie
// dataset exports.
var namePattern = regexp.MustCompile(`'name':\s*'([^']+)'|"name":\s*"([^"]+)"`)

// Plain-text delimiters in priority order; the first one present wins.
var listDelimiters = []string{",", ";", "|", " and ", " & "}

// NameList parses a list-valued field (genres, production companies) from
// either a JSON-ish encoding like [{'name': 'Action'}, ...] or delimited
// plain text like "Action, Drama". The result is text-normalized, deduped,
// and preserves first-occurrence order.
func NameList(v any) []string {
	s := AsString(v)
	switch s {
	case "", "[]", "[ ]", "{}":
		return nil
	}

	if looksJSONish(s) {
		if names := ExtractNames(s); len(names) > 0 {
			return Dedupe(names)
		}
	}
	return Dedupe(SplitPlain(s))
}

// ExtractNames pulls every "name" value out of a JSON-ish string, applying
// text normalization to each.
func ExtractNames(s string) []string {
	matches := namePattern.FindAllStringSubmatch(s, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if cleaned := Text(raw); cleaned != "" {
			names = append(names, cleaned)
		}
	}
	return names
}

// SplitPlain splits delimited plain text on the highest-priority delimiter
// present, drops empty and single-character tokens, and text-normalizes the
// survivors. Input with no delimiter is treated as a single token.
func SplitPlain(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var tokens []string
	split := false
	for _, delim := range listDelimiters {
		if strings.Contains(s, delim) {
			tokens = strings.Split(s, delim)
			split = true
			break
		}
	}
	if !split {
		tokens = []string{s}
	}

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		cleaned := Text(tok)
		if len([]rune(cleaned)) <= 1 {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

func looksJSONish(s string) bool {
	return strings.Contains(s, "[") && strings.Contains(s, "]") &&
		(strings.Contains(s, "'") || strings.Contains(s, `"`))
}

// Dedupe removes duplicate strings while preserving first-occurrence order.
func Dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
