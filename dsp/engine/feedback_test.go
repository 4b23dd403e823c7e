package engine

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-hexsynth/dsp/node"
)

func TestFeedbackFilter(t *testing.T) {
	t.Parallel()

	f := NewFeedbackFilter()
	id := node.KindSin.ID(0)

	avg, peak := f.LED(id, -0.5)
	if avg != -0.5 || peak != 0.5 {
		t.Fatalf("first LED() = (%v, %v), want (-0.5, 0.5)", avg, peak)
	}

	// Same generation: the new sample is ignored.
	if avg, peak = f.LED(id, 1); avg != -0.5 || peak != 0.5 {
		t.Fatalf("LED() without recalc = (%v, %v)", avg, peak)
	}

	f.TriggerRecalc()

	avg, peak = f.LED(id, 0.5)
	if math.Abs(avg-(-0.3)) > 1e-12 || peak != 0.5 {
		t.Fatalf("LED() after recalc = (%v, %v), want (-0.3, 0.5)", avg, peak)
	}

	f.TriggerRecalc()

	if _, peak = f.LED(id, 0); math.Abs(peak-0.45) > 1e-12 {
		t.Fatalf("decayed peak = %v, want 0.45", peak)
	}

	// Outputs are tracked apart from the LED.
	if avg, _ = f.Out(id, 0, 2); avg != 2 {
		t.Fatalf("first Out() = %v, want 2", avg)
	}

	f.Forget(id)

	if avg, _ = f.LED(id, 0.25); avg != 0.25 {
		t.Fatalf("LED() after Forget = %v, want 0.25", avg)
	}

	f.Reset()

	if avg, _ = f.Out(id, 0, 0.75); avg != 0.75 {
		t.Fatalf("Out() after Reset = %v, want 0.75", avg)
	}
}
