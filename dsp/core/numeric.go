// Package core holds small numeric helpers shared by measurements and
// reports.
package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	return math.Min(math.Max(value, lo), hi)
}

// NearlyEqual reports whether a and b are equal within eps, absolute or
// relative to the larger magnitude.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))

	return largest != 0 && diff/largest <= eps
}

// AmplitudeDB converts an amplitude ratio to dB (20*log10).
// Returns -Inf for zero and NaN for negative values.
func AmplitudeDB(ratio float64) float64 {
	if ratio < 0 {
		return math.NaN()
	}

	if ratio == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(ratio)
}

// PowerDB converts a power ratio to dB (10*log10).
// Returns -Inf for zero and NaN for negative values.
func PowerDB(ratio float64) float64 {
	if ratio < 0 {
		return math.NaN()
	}

	if ratio == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(ratio)
}

// DBFS expresses a peak magnitude relative to full scale.
func DBFS(peak, fullScale float64) float64 {
	if fullScale <= 0 {
		return math.NaN()
	}

	return AmplitudeDB(math.Abs(peak) / fullScale)
}

// NextPowerOfTwo returns the smallest power of two >= n, and 1 for n <= 1.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
