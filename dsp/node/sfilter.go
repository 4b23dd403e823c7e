package node

import (
	"math"

	"github.com/cwbudde/algo-hexsynth/dsp/core"
)

const (
	sfInp = iota
	sfFreq
	sfRes
)

const sfType = 0

// Filter types selected by the ftype atom.
const (
	FilterLowPass = iota
	FilterHighPass
	FilterBandPass
	FilterNotch
)

// SFilter is a trapezoidal state variable filter.
type SFilter struct {
	ic1, ic2 float64
	srate    float64
}

func newSFilter(NodeID) Node { return &SFilter{srate: 44100} }

func (*SFilter) Kind() Kind { return KindSFilter }

func (f *SFilter) SetSampleRate(sr float64) {
	if sr > 0 {
		f.srate = sr
	}
}

func (f *SFilter) Reset() { f.ic1, f.ic2 = 0, 0 }

func (f *SFilter) Process(ctx AudioContext, _ *ExecContext, atoms []SAtom, _, inputs, outputs []ProcBuf, led LedPhase) {
	n := ctx.NFrames()
	inp, freq, res := inputs[sfInp], inputs[sfFreq], inputs[sfRes]
	out := outputs[0]
	ftype := atoms[sfType].I()

	for i := range n {
		cutoff := math.Min(core.PitchToFreq(freq[i]), 0.49*f.srate)
		g := math.Tan(math.Pi * cutoff / f.srate)
		k := 2 - 1.98*core.Clamp(res[i], 0, 1)

		a1 := 1 / (1 + g*(g+k))
		a2 := g * a1
		a3 := g * a2

		v0 := inp[i]
		v3 := v0 - f.ic2
		v1 := a1*f.ic1 + a2*v3
		v2 := f.ic2 + a2*f.ic1 + a3*v3

		f.ic1 = core.FlushDenormals(2*v1 - f.ic1)
		f.ic2 = core.FlushDenormals(2*v2 - f.ic2)

		switch ftype {
		case FilterHighPass:
			out[i] = v0 - k*v1 - v2
		case FilterBandPass:
			out[i] = v1
		case FilterNotch:
			out[i] = v0 - k*v1
		default:
			out[i] = v2
		}
	}

	led.Led.Set(out[n-1])
}
