// Package fraction converts the numeric tokens found in run logs to floats.
//
// Logs written by the experiment runtime print ratios as exact rationals
// ("7/2"), so every numeric token is either a plain integer/decimal literal or
// a "<num>/<den>" pair. Parse never fails loudly: anything else reports ok=false
// and callers drop the value from numeric work.
package fraction

import (
	"math"
	"strconv"
	"strings"
)

// Parse converts a token into a finite float64.
// It returns ok=false for empty input, non-numeric text, malformed rationals,
// a zero denominator and any non-finite result.
func Parse(token string) (value float64, ok bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}

	if num, den, isRatio := strings.Cut(token, "/"); isRatio {
		n, ok := parseLiteral(num)
		if !ok {
			return 0, false
		}
		d, ok := parseLiteral(den)
		if !ok || d == 0 {
			return 0, false
		}
		return finite(n / d)
	}

	return parseLiteral(token)
}

// MustParse is Parse for tokens already known to be valid; it returns NaN otherwise.
func MustParse(token string) float64 {
	v, ok := Parse(token)
	if !ok {
		return math.NaN()
	}
	return v
}

// parseLiteral accepts a single decimal or integer literal
func parseLiteral(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "/") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
