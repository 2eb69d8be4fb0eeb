package isomap

import (
	"regexp"
	"strings"

	"cinesift/internal/normalize"
)

var (
	countryCodePattern  = regexp.MustCompile(`'iso_3166_1':\s*'([^']+)'|"iso_3166_1":\s*"([^"]+)"`)
	languageCodePattern = regexp.MustCompile(`'iso_639_1':\s*'([^']+)'|"iso_639_1":\s*"([^"]+)"`)
)

// Mapper turns raw country/language fields into ordered unique lists of
// display names.
type Mapper struct {
	resolver Resolver
}

// NewMapper builds a mapper around the given resolver. A nil resolver
// degrades to the fixed fallback table, never to a failure.
func NewMapper(resolver Resolver) *Mapper {
	if resolver == nil {
		resolver = TableResolver{}
	}
	return &Mapper{resolver: resolver}
}

// MapCountries parses a production-countries field into display names.
func (m *Mapper) MapCountries(raw any) []string {
	return m.mapField(raw, countryCodePattern, m.resolver.CountryName)
}

// MapLanguages parses a spoken-languages field into display names.
func (m *Mapper) MapLanguages(raw any) []string {
	return m.mapField(raw, languageCodePattern, m.resolver.LanguageName)
}

func (m *Mapper) mapField(raw any, codePattern *regexp.Regexp, resolve func(string) (string, bool)) []string {
	s := normalize.AsString(raw)
	switch s {
	case "", "[]", "[ ]", "{}":
		return nil
	}

	if !looksJSONish(s) {
		return normalize.Dedupe(normalize.SplitPlain(s))
	}

	codes := extractPattern(codePattern, s)
	resolved := make([]string, 0, len(codes))
	for _, code := range codes {
		if name, ok := resolve(code); ok {
			resolved = append(resolved, name)
		} else {
			// Unrecognized codes pass through verbatim.
			resolved = append(resolved, code)
		}
	}

	names := normalize.ExtractNames(s)
	return normalize.Dedupe(append(resolved, names...))
}

// The mapper's JSON-ish test differs from the list-field one: these fields
// carry key/value pairs, so a colon is the tell.
func looksJSONish(s string) bool {
	return strings.ContainsAny(s, `'"`) && strings.Contains(s, ":")
}

func extractPattern(pattern *regexp.Regexp, s string) []string {
	matches := pattern.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		value := m[1]
		if value == "" {
			value = m[2]
		}
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
