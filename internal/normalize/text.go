package normalize

import (
	"strings"
	"unicode"
)

// Punctuation allowed to survive text normalization.
const keptPunct = `-':.,!?()[]{}`

// Text canonicalizes free-form text: trims, collapses whitespace runs to a
// single space, turns double quotes into single quotes, and strips anything
// outside word characters, whitespace, and a small punctuation set.
func Text(v any) string {
	s := AsString(v)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteByte('\'')
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || strings.ContainsRune(keptPunct, r):
			b.WriteRune(r)
			lastSpace = false
		default:
			// Control and markup characters vanish.
		}
	}
	return strings.TrimSpace(b.String())
}
