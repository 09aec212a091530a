package common

import (
	"math"
	"strconv"
	"strings"
)

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Finite reports whether p points at a usable number (not nil, NaN or Inf).
func Finite(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}

// InRange reports whether lo <= v <= hi.
func InRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// FormatFloat renders f with the shortest representation that round-trips.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
