package node

import (
	"math"

	"github.com/cwbudde/algo-hexsynth/dsp/core"
)

const (
	sinFreq = iota
	sinDet
)

// Sin is a sine oscillator. Its phase is reported through the phase cell.
type Sin struct {
	phase  float64
	israte float64
}

func newSin(NodeID) Node {
	return &Sin{israte: 1 / 44100.0}
}

func (s *Sin) Kind() Kind { return KindSin }

func (s *Sin) SetSampleRate(sr float64) {
	if sr > 0 {
		s.israte = 1 / sr
	}
}

func (s *Sin) Reset() { s.phase = 0 }

// Phase returns the oscillator phase in [0, 1).
func (s *Sin) Phase() float64 { return s.phase }

func (s *Sin) Process(ctx AudioContext, _ *ExecContext, _ []SAtom, _, inputs, outputs []ProcBuf, led LedPhase) {
	n := ctx.NFrames()
	freq := inputs[sinFreq]
	det := inputs[sinDet]
	out := outputs[0]

	for i := range n {
		hz := core.PitchToFreq(freq[i]) * core.SemitonesToRatio(denormDetune(det[i]))
		out[i] = math.Sin(2 * math.Pi * s.phase)

		s.phase += hz * s.israte
		s.phase -= math.Floor(s.phase)
	}

	led.Led.Set(out[n-1])
	led.Phase.Set(s.phase)
}
