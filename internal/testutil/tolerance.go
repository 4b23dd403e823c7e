package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t when got and want differ in length or any
// sample pair is further apart than eps. The report names the first bad
// sample and how many there are.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}

	first, bad := -1, 0
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			if first < 0 {
				first = i
			}

			bad++
		}
	}

	if bad > 0 {
		t.Fatalf("%d of %d samples off by more than %v, first at %d: got %v, want %v",
			bad, len(got), eps, first, got[first], want[first])
	}
}

// RequireBounded fails t on the first sample that is NaN, infinite or
// louder than limit.
func RequireBounded(t testing.TB, data []float64, limit float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
			t.Fatalf("sample %d = %v, want finite and within ±%v", i, v, limit)
		}
	}
}

// RequireFinite fails t on the first NaN or infinite sample.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	RequireBounded(t, data, math.MaxFloat64)
}

// MaxAbsDiff returns the largest absolute sample difference of a and b, or
// +Inf when their lengths differ.
func MaxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}

	d := 0.0
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}

	return d
}
