// Package ident validates and coerces record identifiers into a single
// canonical integer key.
//
// Source files mix genuine integer IDs with dates, image paths, and other
// junk in the id column. Reconcile applies the same rejection rules to the
// movie table primary key and the ratings table foreign key so the two can
// be joined without type mismatch.
package ident

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalid marks an identifier that cannot become a positive integer key.
var ErrInvalid = errors.New("invalid identifier")

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}`),
	regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}`),
}

var fileExtensions = []string{".jpg", ".png", ".gif", ".pdf"}

// Reconcile coerces a raw identifier of unknown type into a positive int64.
// It rejects date-shaped strings, values contaminated with file extensions,
// anything that fails integer coercion, and non-positive results.
func Reconcile(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("%w: empty", ErrInvalid)
	case int:
		return validate(int64(v))
	case int64:
		return validate(v)
	case float64:
		return validate(int64(v))
	case string:
		return reconcileString(v)
	default:
		return reconcileString(fmt.Sprint(v))
	}
}

// ReconcileString is the string-input form of Reconcile.
func ReconcileString(raw string) (int64, error) {
	return reconcileString(raw)
}

func reconcileString(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalid)
	}

	lower := strings.ToLower(s)
	for _, ext := range fileExtensions {
		if strings.Contains(lower, ext) {
			return 0, fmt.Errorf("%w: file-like value %q", ErrInvalid, raw)
		}
	}

	if strings.ContainsAny(s, "/-") {
		for _, pattern := range datePatterns {
			if pattern.MatchString(s) {
				return 0, fmt.Errorf("%w: date-like value %q", ErrInvalid, raw)
			}
		}
	}

	// Accept float-as-string forms like "42.0".
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, fmt.Errorf("%w: cannot coerce %q to integer", ErrInvalid, raw)
		}
		id = int64(f)
	}
	return validate(id)
}

func validate(id int64) (int64, error) {
	if id <= 0 {
		return 0, fmt.Errorf("%w: non-positive value %d", ErrInvalid, id)
	}
	return id, nil
}
