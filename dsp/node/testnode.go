package node

const (
	testAtomP = iota
	testAtomTrig
	testAtomS
	testAtomName
)

// Test passes its f input through. It exists to exercise every atom type.
type Test struct{}

func newTest(NodeID) Node { return &Test{} }

func (*Test) Kind() Kind            { return KindTest }
func (*Test) SetSampleRate(float64) {}
func (*Test) Reset()                {}

func (*Test) Process(ctx AudioContext, _ *ExecContext, atoms []SAtom, _, inputs, outputs []ProcBuf, led LedPhase) {
	n := ctx.NFrames()
	copy(outputs[0][:n], inputs[0][:n])

	led.Led.Set(outputs[0][n-1])
	led.Phase.Set(atoms[testAtomS].F())
}
