package node

import "github.com/cwbudde/algo-vecmath"

const (
	ampInp = iota
	ampGain
	ampAtt
)

const ampNegAtt = 0

// Amp multiplies its input by gain and attenuation.
type Amp struct {
	gain ProcBuf
}

func newAmp(NodeID) Node {
	return &Amp{gain: NewProcBuf()}
}

func (a *Amp) Kind() Kind            { return KindAmp }
func (a *Amp) SetSampleRate(float64) {}
func (a *Amp) Reset()                {}

func (a *Amp) Process(ctx AudioContext, _ *ExecContext, atoms []SAtom, _, inputs, outputs []ProcBuf, led LedPhase) {
	n := ctx.NFrames()
	gain := inputs[ampGain][:n]
	att := inputs[ampAtt][:n]
	clipNeg := atoms[ampNegAtt].I() != 0

	g := a.gain[:n]
	for i := range g {
		v := att[i]
		if clipNeg && v < 0 {
			v = 0
		}

		g[i] = denormGain(gain[i]) * v
	}

	out := outputs[0][:n]
	vecmath.MulBlock(out, inputs[ampInp][:n], g)
	led.Led.Set(out[n-1])
}
