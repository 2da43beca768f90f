package mrm

import "math"

// DefaultIntegrator implements the Integrator collaborator with a plain
// trapezoidal-rule area and max-point apex. §1 treats numeric primitives
// like this as "assumed available"; this is the library's own usable
// default for callers (e.g. the CLI) that don't supply a specialized one.
func DefaultIntegrator(x, y []float64, left, right float64) (area, apexHeight, apexPosition float64) {
	if len(x) == 0 {
		return 0, 0, 0
	}
	for i := 1; i < len(x); i++ {
		area += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
	}
	apexPosition = x[0]
	for i, v := range y {
		if v > apexHeight {
			apexHeight = v
			apexPosition = x[i]
		}
	}
	return area, apexHeight, apexPosition
}

// DefaultCrossCorrelator computes normalized cross-correlation between
// two equal-length, common-grid signals, returning the lag (in samples)
// and shape (correlation coefficient) at the best-aligning offset.
func DefaultCrossCorrelator(a, b []float64) (lag, shape float64) {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0, 0
	}
	best := -1.0
	bestLag := 0
	maxShift := n / 2
	for shift := -maxShift; shift <= maxShift; shift++ {
		var num, da, db float64
		for i := 0; i < n; i++ {
			j := i + shift
			if j < 0 || j >= n {
				continue
			}
			num += a[i] * b[j]
			da += a[i] * a[i]
			db += b[j] * b[j]
		}
		if da == 0 || db == 0 {
			continue
		}
		corr := num / math.Sqrt(da*db)
		if corr > best {
			best = corr
			bestLag = shift
		}
	}
	if best < 0 {
		return 0, 0
	}
	return float64(bestLag), best
}

// DefaultBackgroundEstimator subtracts a straight line between the
// signal's left and right boundary values across [left,right].
func DefaultBackgroundEstimator(x, y []float64, left, right float64) []float64 {
	out := make([]float64, len(y))
	if len(x) == 0 {
		return out
	}
	leftVal, rightVal := y[0], y[len(y)-1]
	span := right - left
	for i, xi := range x {
		frac := 0.0
		if span > 0 {
			frac = (xi - left) / span
		}
		baseline := leftVal + frac*(rightVal-leftVal)
		out[i] = y[i] - baseline
	}
	return out
}
