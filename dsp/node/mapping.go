package node

import (
	"math"

	"github.com/cwbudde/algo-hexsynth/dsp/core"
)

// mapping converts between a parameter's normalized value and its natural
// unit. min and max are in natural units.
type mapping struct {
	min, max float64
	norm     func(float64) float64
	denorm   func(float64) float64
}

func linear(min, max float64) mapping {
	return mapping{
		min: min,
		max: max,
		norm: func(v float64) float64 {
			return core.Clamp(v, min, max)
		},
		denorm: func(x float64) float64 { return x },
	}
}

var (
	signalMap = linear(-1, 1)
	unitMap   = linear(0, 1)

	pitchMap = mapping{
		min:    core.PitchToFreq(-1),
		max:    core.PitchToFreq(1),
		norm:   core.FreqToPitch,
		denorm: core.PitchToFreq,
	}

	// gain is quadratic over 0..2
	gainMap = mapping{
		min:    0,
		max:    2,
		norm:   func(v float64) float64 { return math.Sqrt(core.Clamp(v, 0, 2) / 2) },
		denorm: denormGain,
	}

	volMap = mapping{
		min:    0,
		max:    1,
		norm:   func(v float64) float64 { return math.Sqrt(core.Clamp(v, 0, 1)) },
		denorm: denormVol,
	}

	detuneMap = mapping{
		min:    -maxDetune,
		max:    maxDetune,
		norm:   func(v float64) float64 { return core.Clamp(v, -maxDetune, maxDetune) / maxDetune },
		denorm: denormDetune,
	}
)

const maxDetune = 24.0

func denormGain(x float64) float64   { return 2 * x * x }
func denormVol(x float64) float64    { return x * x }
func denormDetune(x float64) float64 { return x * maxDetune }
