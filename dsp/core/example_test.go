package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-hexsynth/dsp/core"
)

func ExamplePitchToFreq() {
	fmt.Printf("%.0f %.0f %.0f\n", core.PitchToFreq(-0.1), core.PitchToFreq(0), core.PitchToFreq(0.1))
	fmt.Printf("%.3f\n", core.FreqToPitch(880))

	// Output:
	// 220 440 880
	// 0.100
}

func ExampleNoteToPitch() {
	// C5 is three semitones above A4.
	p := core.NoteToPitch(72, 0)
	fmt.Printf("%.1f Hz\n", core.PitchToFreq(p))

	// Output:
	// 523.3 Hz
}
