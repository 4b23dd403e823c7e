package engine

import (
	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/dsp/prog"
)

// NodeInstance is the control side view of an allocated node: where its
// ports live in the arenas of the next program. Instances are rebuilt by
// RebuildNodePorts and never patched.
type NodeInstance struct {
	ID   node.NodeID
	Slot int
	// ProgIdx is the position of the node's op in the program being
	// built, or -1.
	ProgIdx int
	Out     prog.Range
	In      prog.Range
	At      prog.Range

	used bool
}

// Used reports whether the node was added to the program being built.
func (ni *NodeInstance) Used() bool { return ni.used }

// OutLocal2Global maps output port i to its output arena slot.
func (ni *NodeInstance) OutLocal2Global(i int) (int, bool) {
	return local2Global(ni.Out, i)
}

// InLocal2Global maps input port i to its input arena slot.
func (ni *NodeInstance) InLocal2Global(i int) (int, bool) {
	return local2Global(ni.In, i)
}

// AtLocal2Global maps atom i to its atom arena slot.
func (ni *NodeInstance) AtLocal2Global(i int) (int, bool) {
	return local2Global(ni.At, i)
}

func local2Global(r prog.Range, i int) (int, bool) {
	if i < 0 || i >= r.Len() {
		return 0, false
	}

	return r.Start + i, true
}

func (ni *NodeInstance) op() prog.Op {
	return prog.Op{Idx: ni.Slot, Kind: ni.ID.Kind, Out: ni.Out, In: ni.In, At: ni.At}
}
