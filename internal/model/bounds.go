package model

import "math"

// Clamp bounds v into [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds a similarity or confidence into [0,1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
