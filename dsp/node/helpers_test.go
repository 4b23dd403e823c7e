package node

import "testing"

// runNode processes one block of frames with every input filled with the
// given constant normalized values and default atoms.
func runNode(t *testing.T, id NodeID, frames int, ectx *ExecContext, values map[string]float64) (Node, []ProcBuf, *BufferContext, LedPhase) {
	t.Helper()

	nd, info, ok := New(id)
	if !ok {
		t.Fatalf("New(%s) failed", id)
	}

	inputs := make([]ProcBuf, info.InCount())
	for i := range inputs {
		p, _ := id.InpParamByIdx(i)

		v := p.NormDef()
		if x, ok := values[p.Name()]; ok {
			v = x
		}

		inputs[i] = NewProcBuf()
		inputs[i].Fill(v)
	}

	atoms := make([]SAtom, info.AtCount())
	for i := range atoms {
		p, _ := id.AtomParamByIdx(i)
		atoms[i] = p.AtomDef()
	}

	outputs := make([]ProcBuf, info.OutCount())
	for i := range outputs {
		outputs[i] = NewProcBuf()
	}

	if ectx == nil {
		ectx = &ExecContext{SampleRate: 44100}
	}

	nd.SetSampleRate(ectx.SampleRate)

	ctx := NewBufferContext(0, 2, frames)
	led := Discard()
	nd.Process(ctx, ectx, atoms, inputs, inputs, outputs, led)

	return nd, outputs, ctx, led
}
