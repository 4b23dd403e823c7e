package window

import (
	"strconv"
	"testing"
)

func BenchmarkGenerate(b *testing.B) {
	for _, n := range []int{256, 1024, 4096} {
		b.Run("hann/"+strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				_ = Generate(TypeHann, n, WithPeriodic())
			}
		})
	}
}

func BenchmarkApply(b *testing.B) {
	for _, n := range []int{256, 1024, 4096} {
		b.Run("hann/"+strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()

			buf := make([]float64, n)
			coeffs := Generate(TypeHann, n, WithPeriodic())

			for i := 0; i < b.N; i++ {
				_ = Apply(buf, coeffs)
			}
		})
	}
}
