package normalize

import (
	"math"
	"strings"
	"time"
)

// Rating validates an average rating into the inclusive [0, 10] range at two
// decimal places. Out-of-range or unparsable input becomes 0.
func Rating(v any) float64 {
	f, ok := parseFloat(v)
	if !ok || f < 0 || f > 10 {
		return 0
	}
	return math.Round(f*100) / 100
}

// Count validates a rating count into a non-negative integer.
func Count(v any) int64 {
	f, ok := parseFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return int64(f)
}

// StdDev validates a rating standard deviation at four decimal places. A
// population of one (or zero) ratings has no spread, so the value is forced
// to 0 whenever count is at most 1.
func StdDev(v any, count int64) float64 {
	if count <= 1 {
		return 0
	}
	f, ok := parseFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return math.Round(f*10000) / 10000
}

const timestampLayout = "2006-01-02 15:04:05"

// Timestamp converts integer epoch seconds into a "YYYY-MM-DD HH:MM:SS"
// string in UTC. Already-formatted input passes through unchanged so
// repeated cleaning is stable. Returns ok=false for anything unconvertible.
func Timestamp(v any) (string, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if _, err := time.Parse(timestampLayout, s); err == nil {
			return s, true
		}
	}
	f, ok := parseFloat(v)
	if !ok || f <= 0 {
		return "", false
	}
	return time.Unix(int64(f), 0).UTC().Format(timestampLayout), true
}
