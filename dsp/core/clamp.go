package core

import "cmp"

// DenormThreshold is the magnitude below which recursive filter state is
// flushed to zero.
const DenormThreshold = 1e-30

// Clamp limits v to [lo, hi]. The bounds may come in either order.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}

	return min(max(v, lo), hi)
}

// FlushDenormals returns 0 for values smaller than DenormThreshold in
// magnitude and x otherwise.
func FlushDenormals(x float64) float64 {
	if x > -DenormThreshold && x < DenormThreshold {
		return 0
	}

	return x
}
