package node

// Node is the audio-side state of one node. Process runs on the audio
// thread: it must not block or allocate.
//
// params holds the smoothed parameter buffers of the node's inputs and
// inputs the effective input buffers, which are the copied upstream output
// for connected ports and the parameter buffer otherwise. All slices have
// exactly the lengths declared by the node's Info.
type Node interface {
	Kind() Kind
	SetSampleRate(sr float64)
	Reset()
	Process(ctx AudioContext, ectx *ExecContext, atoms []SAtom, params, inputs, outputs []ProcBuf, led LedPhase)
}

// Releaser is implemented by nodes that hold resources to free once the
// engine retired them.
type Releaser interface {
	Release()
}

// New creates the node for id. It returns false for Nop and unknown kinds.
func New(id NodeID) (Node, Info, bool) {
	if id.IsNop() || id.Kind >= kindCount {
		return nil, Info{}, false
	}

	s := &kindSpecs[id.Kind]

	return s.create(id), Info{id: id, spec: s}, true
}
