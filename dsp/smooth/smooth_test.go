package smooth

import (
	"math"
	"testing"
)

func TestSlopeFromSampleRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sr, ms float64
		want   int
	}{
		{sr: 44100, ms: 10, want: 441},
		{sr: 48000, ms: 10, want: 480},
		{sr: 44100, ms: 0.5, want: 23},
		{sr: 0, ms: 10, want: 0},
	}

	for _, tt := range tests {
		s := New(tt.sr, tt.ms)
		if s.Slope() != tt.want {
			t.Fatalf("New(%v, %v).Slope() = %d, want %d", tt.sr, tt.ms, s.Slope(), tt.want)
		}
	}
}

func TestZeroValueIsDone(t *testing.T) {
	t.Parallel()

	var s Smoother
	if !s.Done() {
		t.Fatal("zero Smoother not done")
	}
}

func TestRampReachesExactTarget(t *testing.T) {
	t.Parallel()

	s := New(1000, 10) // 10 samples
	s.Set(0, 1)

	if s.Done() {
		t.Fatal("Done() right after Set")
	}

	prev := 0.0
	for i := range 10 {
		v := s.Next()
		if v < prev || v > 1 {
			t.Fatalf("sample %d = %v, not monotone within [0, 1]", i, v)
		}

		prev = v
	}

	if prev != 1 {
		t.Fatalf("value after ramp = %v, want exactly 1", prev)
	}

	if got := s.Next(); got != 1 || !s.Done() {
		t.Fatalf("Next() after ramp = %v done=%v, want 1 done", got, s.Done())
	}
}

func TestRampDownward(t *testing.T) {
	t.Parallel()

	s := New(44100, 10)
	s.Set(0.8, -0.2)

	for range s.Slope() + 1 {
		v := s.Next()
		if v > 0.8 || v < -0.2 {
			t.Fatalf("value %v escaped [-0.2, 0.8]", v)
		}
	}

	if !s.Done() || s.Value() != -0.2 {
		t.Fatalf("Value() = %v done=%v, want -0.2 done", s.Value(), s.Done())
	}
}

func TestZeroSlopeJumps(t *testing.T) {
	t.Parallel()

	var s Smoother
	s.Set(0, 0.5)

	if got := s.Next(); got != 0.5 {
		t.Fatalf("Next() = %v, want 0.5", got)
	}

	if !s.Done() {
		t.Fatal("not done after jump")
	}
}

func TestRetargetMidRamp(t *testing.T) {
	t.Parallel()

	s := New(1000, 10)
	s.Set(0, 1)

	for range 5 {
		s.Next()
	}

	mid := s.Value()
	if math.Abs(mid-0.5) > 1e-12 {
		t.Fatalf("mid ramp value = %v, want 0.5", mid)
	}

	s.Set(mid, 0)

	for range 11 {
		s.Next()
	}

	if s.Value() != 0 || !s.Done() {
		t.Fatalf("Value() = %v done=%v, want 0 done", s.Value(), s.Done())
	}
}

func TestStop(t *testing.T) {
	t.Parallel()

	s := New(1000, 10)
	s.Set(0, 1)
	s.Next()
	s.Stop()

	if !s.Done() {
		t.Fatal("not done after Stop")
	}
}
