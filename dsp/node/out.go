package node

import "github.com/cwbudde/algo-vecmath"

const (
	outCh1 = iota
	outCh2
	outVol
)

const outMono = 0

// Out writes two channels to the host, scaled by vol.
type Out struct {
	vol, left, right ProcBuf
}

func newOut(NodeID) Node {
	return &Out{vol: NewProcBuf(), left: NewProcBuf(), right: NewProcBuf()}
}

func (o *Out) Kind() Kind            { return KindOut }
func (o *Out) SetSampleRate(float64) {}
func (o *Out) Reset()                {}

func (o *Out) Process(ctx AudioContext, _ *ExecContext, atoms []SAtom, _, inputs, _ []ProcBuf, led LedPhase) {
	n := ctx.NFrames()

	vol := o.vol[:n]
	for i, x := range inputs[outVol][:n] {
		vol[i] = denormVol(x)
	}

	left, right := o.left[:n], o.right[:n]
	vecmath.MulBlock(left, inputs[outCh1][:n], vol)

	if atoms[outMono].I() != 0 {
		copy(right, left)
	} else {
		vecmath.MulBlock(right, inputs[outCh2][:n], vol)
	}

	for i := range n {
		ctx.Output(0, i, left[i])
		ctx.Output(1, i, right[i])
	}

	led.Led.Set(left[n-1])
}
