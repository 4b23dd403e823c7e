// Package prog holds the compiled form of a node graph: a flat list of ops
// in execution order over pre-allocated output, input and atom arenas.
package prog

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/internal/triplebuf"
)

// Range is the half-open arena interval [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of slots in r.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether i lies in r.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

func (r Range) String() string { return fmt.Sprintf("%d..%d", r.Start, r.End) }

// Edge copies output arena slot Out into input arena slot In before the
// consuming op runs.
type Edge struct {
	Out, In int
}

// Op executes the node in slot Idx over its arena ranges. Kind is the kind
// the ranges were laid out for; the op is skipped when the slot holds a
// node of another kind.
type Op struct {
	Idx    int
	Kind   node.Kind
	Out    Range
	In     Range
	At     Range
	Inputs []Edge
}

func (op Op) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Op(%d %s out=%s in=%s at=%s", op.Idx, op.Kind, op.Out, op.In, op.At)

	for _, e := range op.Inputs {
		fmt.Fprintf(&b, " %d->%d", e.Out, e.In)
	}

	b.WriteString(")")

	return b.String()
}

// NodeProg is a compiled program. Out holds node outputs, Inp the smoothed
// parameter buffers and CurInp the buffers nodes actually read: an alias of
// Inp for unconnected inputs, a dedicated edge buffer for connected ones.
type NodeProg struct {
	Out    []node.ProcBuf
	Inp    []node.ProcBuf
	CurInp []node.ProcBuf
	Params []float64
	Atoms  []node.SAtom
	Ops    []Op

	edgeBufs  []node.ProcBuf
	connected []bool
	feedback  *triplebuf.Buffer[[]float64]
}

// New allocates a program with the given arena sizes. All buffers are
// allocated here so the audio thread never has to.
func New(outLen, inLen, atLen int) *NodeProg {
	p := &NodeProg{
		Out:       newBufs(outLen),
		Inp:       newBufs(inLen),
		CurInp:    make([]node.ProcBuf, inLen),
		Params:    make([]float64, inLen),
		Atoms:     make([]node.SAtom, atLen),
		edgeBufs:  newBufs(inLen),
		connected: make([]bool, inLen),
		feedback: triplebuf.New(func() []float64 {
			return make([]float64, outLen)
		}),
	}
	copy(p.CurInp, p.Inp)

	return p
}

// Empty returns a program without ops.
func Empty() *NodeProg {
	return New(0, 0, 0)
}

func newBufs(n int) []node.ProcBuf {
	bufs := make([]node.ProcBuf, n)
	for i := range bufs {
		bufs[i] = node.NewProcBuf()
	}

	return bufs
}

// AppendOp adds op unless an op for the same node slot is present. It
// returns the op's position in Ops and whether it was added.
func (p *NodeProg) AppendOp(op Op) (int, bool) {
	for i := range p.Ops {
		if p.Ops[i].Idx == op.Idx {
			return i, false
		}
	}

	p.Ops = append(p.Ops, op)

	return len(p.Ops) - 1, true
}

// AppendEdge adds an input copy edge to the op of op.Idx, searching from
// the most recently added op. When the node has no op yet, op is appended
// carrying the edge. It returns the position of the op in Ops, or -1 when
// the edge lies outside the arenas and was ignored.
func (p *NodeProg) AppendEdge(op Op, in, out int) int {
	if in < 0 || in >= len(p.Inp) || out < 0 || out >= len(p.Out) {
		return -1
	}

	p.connected[in] = true
	edge := Edge{Out: out, In: in}

	for i := len(p.Ops) - 1; i >= 0; i-- {
		if p.Ops[i].Idx == op.Idx {
			p.Ops[i].Inputs = append(p.Ops[i].Inputs, edge)
			return i
		}
	}

	op.Inputs = append(op.Inputs[:len(op.Inputs):len(op.Inputs)], edge)
	p.Ops = append(p.Ops, op)

	return len(p.Ops) - 1
}

// Connected reports whether input slot in is fed by an edge.
func (p *NodeProg) Connected(in int) bool {
	return in >= 0 && in < len(p.connected) && p.connected[in]
}

// InitializeInputBuffers fills every input buffer with its parameter value.
func (p *NodeProg) InitializeInputBuffers() {
	for i, v := range p.Params {
		p.Inp[i].Fill(v)
	}
}

// SwapPreviousInputs takes over the input buffers of prev for every slot
// both programs have, so running modulation continues where it was.
// Overlapping parameter values are carried over as well.
func (p *NodeProg) SwapPreviousInputs(prev *NodeProg) {
	if prev == nil {
		return
	}

	n := min(len(p.Inp), len(prev.Inp))
	for i := range n {
		p.Inp[i], prev.Inp[i] = prev.Inp[i], p.Inp[i]
		p.Params[i] = prev.Params[i]
	}
}

// AssignInputs points CurInp at the buffers nodes read.
func (p *NodeProg) AssignInputs() {
	for i := range p.CurInp {
		if p.connected[i] {
			p.CurInp[i] = p.edgeBufs[i]
		} else {
			p.CurInp[i] = p.Inp[i]
		}
	}
}

// CopyEdges copies the first n frames along every input edge of op.
func (p *NodeProg) CopyEdges(op *Op, n int) {
	for _, e := range op.Inputs {
		copy(p.CurInp[e.In][:n], p.Out[e.Out][:n])
	}
}

// Feedback returns the triple buffer carrying the last output sample of
// every output slot. The executor writes it, the configurator reads it.
func (p *NodeProg) Feedback() *triplebuf.Buffer[[]float64] {
	return p.feedback
}

func (p *NodeProg) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "NodeProg(out=%d in=%d at=%d)\n", len(p.Out), len(p.Inp), len(p.Atoms))

	for _, op := range p.Ops {
		b.WriteString("  ")
		b.WriteString(op.String())
		b.WriteString("\n")
	}

	return b.String()
}
