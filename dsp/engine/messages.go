package engine

import (
	"github.com/cwbudde/algo-hexsynth/dsp/monitor"
	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/dsp/prog"
)

// GraphKind selects the payload of a GraphMessage.
type GraphKind uint8

const (
	// GraphNewNode installs Node at slot Index.
	GraphNewNode GraphKind = iota
	// GraphNewProg installs Prog.
	GraphNewProg
	// GraphClear removes every node and installs Prog.
	GraphClear
	// GraphResetNodes returns every installed node to its initial state.
	GraphResetNodes
)

func (k GraphKind) String() string {
	switch k {
	case GraphNewNode:
		return "new-node"
	case GraphNewProg:
		return "new-prog"
	case GraphResetNodes:
		return "reset-nodes"
	default:
		return "clear"
	}
}

// GraphMessage carries structural changes to the executor.
type GraphMessage struct {
	Kind       GraphKind
	Index      int
	Node       node.Node
	Prog       *prog.NodeProg
	CopyOldOut bool
}

// QuickKind selects the payload of a QuickMessage.
type QuickKind uint8

const (
	// QuickParamUpdate ramps input slot Index to Value.
	QuickParamUpdate QuickKind = iota
	// QuickAtomUpdate replaces atom slot Index with Atom.
	QuickAtomUpdate
	// QuickSetMonitor replaces the monitor taps.
	QuickSetMonitor
)

func (k QuickKind) String() string {
	switch k {
	case QuickParamUpdate:
		return "param"
	case QuickAtomUpdate:
		return "atom"
	default:
		return "monitor"
	}
}

// QuickMessage carries parameter, atom and monitor changes.
type QuickMessage struct {
	Kind    QuickKind
	Index   int
	Value   float64
	Atom    node.SAtom
	Monitor [monitor.SigCount]int
}

// DropKind selects the payload of a DropMsg.
type DropKind uint8

const (
	DropNode DropKind = iota
	DropProg
	DropAtom
)

func (k DropKind) String() string {
	switch k {
	case DropNode:
		return "node"
	case DropProg:
		return "prog"
	default:
		return "atom"
	}
}

// DropMsg hands a retired object to the drop goroutine.
type DropMsg struct {
	Kind DropKind
	Node node.Node
	Prog *prog.NodeProg
	Atom node.SAtom
}
