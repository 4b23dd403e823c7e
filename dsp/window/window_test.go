package window

import (
	"errors"
	"math"
	"testing"
)

func TestHannPeriodic(t *testing.T) {
	t.Parallel()

	w, err := Hann(8, WithPeriodic())
	if err != nil {
		t.Fatalf("Hann() error = %v", err)
	}

	want := []float64{0, 0.1464466, 0.5, 0.8535534, 1, 0.8535534, 0.5, 0.1464466}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-6 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestHannSymmetric(t *testing.T) {
	t.Parallel()

	w, _ := Hann(9)
	if w[0] != 0 || math.Abs(w[8]) > 1e-15 || math.Abs(w[4]-1) > 1e-15 {
		t.Fatalf("symmetric Hann endpoints/center = %v %v %v", w[0], w[8], w[4])
	}
}

func TestHannInvalidSize(t *testing.T) {
	t.Parallel()

	w, err := Hann(0)
	if err == nil || w != nil {
		t.Fatalf("Hann(0) = %v, %v, want nil and an error", w, err)
	}
}

func TestCoherentGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  Type
		want float64
	}{
		{TypeRectangular, 1},
		{TypeHann, 0.5},
		{TypeHamming, 0.54},
		{TypeBlackman, 0.42},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			t.Parallel()

			got, err := CoherentGain(Generate(tt.typ, 1024, WithPeriodic()))
			if err != nil {
				t.Fatalf("CoherentGain() error = %v", err)
			}

			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("CoherentGain() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := CoherentGain(nil); err == nil {
		t.Fatal("CoherentGain(nil) error = nil")
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "hann", " Hann "} {
		if got, err := ParseType(name); err != nil || got != TypeHann {
			t.Fatalf("ParseType(%q) = %v, %v, want hann", name, got, err)
		}
	}

	if got, err := ParseType("blackman"); err != nil || got != TypeBlackman {
		t.Fatalf("ParseType(blackman) = %v, %v", got, err)
	}

	if _, err := ParseType("kaiser"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("ParseType(kaiser) error = %v, want ErrUnknownType", err)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	samples := []float64{2, 2, 2, 2}
	if err := Apply(samples, Generate(TypeHann, 4, WithPeriodic())); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := []float64{0, 1, 2, 1}
	for i := range want {
		if math.Abs(samples[i]-want[i]) > 1e-12 {
			t.Fatalf("samples[%d] = %v, want %v", i, samples[i], want[i])
		}
	}

	if err := Apply(samples, []float64{1}); err == nil {
		t.Fatal("Apply() with mismatched lengths error = nil")
	}
}
