package isomap

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Resolver maps an ISO code to a display name. ok reports whether the code
// was recognized.
type Resolver interface {
	CountryName(code string) (string, bool)
	LanguageName(code string) (string, bool)
}

// DefaultResolver layers the CLDR-backed resolver over the fixed table.
func DefaultResolver() Resolver {
	return Chain(DisplayResolver{}, TableResolver{})
}

// Chain tries each resolver in order and reports the first hit.
func Chain(resolvers ...Resolver) Resolver {
	return chainResolver(resolvers)
}

type chainResolver []Resolver

func (c chainResolver) CountryName(code string) (string, bool) {
	for _, r := range c {
		if name, ok := r.CountryName(code); ok {
			return name, true
		}
	}
	return "", false
}

func (c chainResolver) LanguageName(code string) (string, bool) {
	for _, r := range c {
		if name, ok := r.LanguageName(code); ok {
			return name, true
		}
	}
	return "", false
}

// DisplayResolver resolves codes through the CLDR display-name data shipped
// with golang.org/x/text.
type DisplayResolver struct{}

func (DisplayResolver) CountryName(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return "", false
	}
	name := display.English.Regions().Name(region)
	if name == "" || strings.EqualFold(name, code) {
		return "", false
	}
	return name, true
}

func (DisplayResolver) LanguageName(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "", false
	}
	name := display.English.Languages().Name(base)
	if name == "" || strings.EqualFold(name, code) {
		return "", false
	}
	return name, true
}

// TableResolver resolves the most common codes from a fixed table. It is the
// deterministic fallback used when no authoritative mapping recognizes a
// code.
type TableResolver struct{}

var fallbackCountries = map[string]string{
	"US": "United States", "GB": "United Kingdom", "FR": "France",
	"DE": "Germany", "IT": "Italy", "JP": "Japan", "CA": "Canada",
	"AU": "Australia", "ES": "Spain", "IN": "India", "CN": "China",
	"RU": "Russia", "BR": "Brazil", "MX": "Mexico", "KR": "South Korea",
	"NL": "Netherlands", "SE": "Sweden", "NO": "Norway", "DK": "Denmark",
}

var fallbackLanguages = map[string]string{
	"en": "English", "fr": "French", "de": "German", "es": "Spanish",
	"it": "Italian", "ja": "Japanese", "ko": "Korean", "zh": "Chinese",
	"ru": "Russian", "pt": "Portuguese", "nl": "Dutch", "sv": "Swedish",
	"da": "Danish", "no": "Norwegian", "fi": "Finnish", "pl": "Polish",
	"ar": "Arabic", "hi": "Hindi", "th": "Thai", "vi": "Vietnamese",
}

func (TableResolver) CountryName(code string) (string, bool) {
	name, ok := fallbackCountries[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

func (TableResolver) LanguageName(code string) (string, bool) {
	name, ok := fallbackLanguages[strings.ToLower(strings.TrimSpace(code))]
	return name, ok
}
