// Package clock centralizes the single timestamp representation used
// throughout the store: fixed-width RFC 3339 UTC strings, which are
// lexically monotonic and so can be compared directly in SQL and in Go
// without parsing. It also holds the backoff formula.
package clock

import (
	"math"
	"time"
)

// Layout is the exact timestamp format persisted and compared
// throughout the store. Comparisons rely on every timestamp being
// formatted with this same layout in UTC.
//
// This is deliberately not time.RFC3339Nano: that layout trims
// trailing zero fractional digits and drops the fraction entirely when
// the nanosecond component is exactly zero, so two timestamps within
// the same second can compare in the wrong lexical order ("05Z" sorts
// after "05.000000001Z" byte-wise). Zeros (not nines) in the fractional
// part of the layout tell Go to always zero-pad to that width, giving
// every stored timestamp exactly 9 fractional digits.
const Layout = "2006-01-02T15:04:05.000000000Z07:00"

// Now returns the current time formatted for storage.
func Now() string {
	return time.Now().UTC().Format(Layout)
}

// Format renders t for storage.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse reverses Format. Callers that only need to compare timestamps
// should compare the strings directly instead of parsing.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// AddSeconds returns now advanced by d seconds, formatted for storage.
func AddSeconds(now string, d float64) (string, error) {
	t, err := Parse(now)
	if err != nil {
		return "", err
	}
	return Format(t.Add(time.Duration(d * float64(time.Second)))), nil
}

// IsDue reports whether t is null (nil) or not after now. Both are
// storage-formatted timestamps; the lexical comparison is valid
// because Layout produces fixed-width, zero-padded, UTC-normalized
// strings.
func IsDue(t *string, now string) bool {
	if t == nil {
		return true
	}
	return *t <= now
}

// Backoff computes the retry delay in seconds: base^attempts.
func Backoff(base float64, attempts int) float64 {
	return math.Pow(base, float64(attempts))
}
