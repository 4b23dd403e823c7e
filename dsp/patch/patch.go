// Package patch keeps a set of nodes and connections and compiles it into
// an executable program in dependency order.
package patch

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/dsp/prog"
)

var (
	ErrCycle          = errors.New("patch: graph contains a cycle")
	ErrDuplicateInput = errors.New("patch: input already connected")
	ErrUnknownPort    = errors.New("patch: unknown port")
	ErrUnknownNode    = errors.New("patch: unknown node")
)

// Connection feeds output Out of From into input In of To.
type Connection struct {
	From node.NodeID
	Out  int
	To   node.NodeID
	In   int
}

func (c Connection) String() string {
	return fmt.Sprintf("%s:%s -> %s:%s",
		c.From, node.NewInfo(c.From).OutName(c.Out),
		c.To, node.NewInfo(c.To).InName(c.In))
}

// Compiler builds and uploads programs. *engine.Configurator implements it.
type Compiler interface {
	CreateNode(id node.NodeID) (node.Info, int, error)
	SetParam(pid node.ParamID, v float64)
	RebuildNodePorts() *prog.NodeProg
	AddProgNode(p *prog.NodeProg, id node.NodeID)
	SetProgNodeExecConnection(p *prog.NodeProg, inID node.NodeID, inPort int, outID node.NodeID, outPort int)
	UploadProg(p *prog.NodeProg, copyOldOut bool)
}

type inKey struct {
	id node.NodeID
	in int
}

type paramValue struct {
	pid node.ParamID
	v   float64
}

// Patch is an editable node graph. It is not safe for concurrent use.
type Patch struct {
	nodes  []node.NodeID
	index  map[node.NodeID]int
	conns  []Connection
	inputs map[inKey]struct{}
	params []paramValue
}

// New returns an empty patch.
func New() *Patch {
	return &Patch{
		index:  make(map[node.NodeID]int),
		inputs: make(map[inKey]struct{}),
	}
}

// Add appends nodes. Adding a node twice is a no-op.
func (p *Patch) Add(ids ...node.NodeID) error {
	for _, id := range ids {
		if !id.Kind.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}

		if _, ok := p.index[id]; ok {
			continue
		}

		p.index[id] = len(p.nodes)
		p.nodes = append(p.nodes, id)
	}

	return nil
}

// Remove drops id and every connection touching it.
func (p *Patch) Remove(id node.NodeID) {
	idx, ok := p.index[id]
	if !ok {
		return
	}

	p.nodes = append(p.nodes[:idx], p.nodes[idx+1:]...)
	delete(p.index, id)

	for i := idx; i < len(p.nodes); i++ {
		p.index[p.nodes[i]] = i
	}

	kept := p.conns[:0]

	for _, c := range p.conns {
		if c.From == id || c.To == id {
			delete(p.inputs, inKey{id: c.To, in: c.In})
			continue
		}

		kept = append(kept, c)
	}

	p.conns = kept

	params := p.params[:0]

	for _, pv := range p.params {
		if pv.pid.Node != id {
			params = append(params, pv)
		}
	}

	p.params = params
}

// Connect feeds the named output of from into the named input of to. Both
// nodes must have been added. An input takes at most one connection.
func (p *Patch) Connect(from node.NodeID, outName string, to node.NodeID, inName string) error {
	out, ok := from.Out(outName)
	if !ok {
		return fmt.Errorf("%w: %s has no output %q", ErrUnknownPort, from, outName)
	}

	in, ok := to.Inp(inName)
	if !ok {
		return fmt.Errorf("%w: %s has no input %q", ErrUnknownPort, to, inName)
	}

	return p.ConnectPorts(from, out, to, in)
}

// ConnectPorts is Connect with port indices.
func (p *Patch) ConnectPorts(from node.NodeID, out int, to node.NodeID, in int) error {
	for _, id := range []node.NodeID{from, to} {
		if _, ok := p.index[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
	}

	if out < 0 || out >= node.NewInfo(from).OutCount() {
		return fmt.Errorf("%w: %s output %d", ErrUnknownPort, from, out)
	}

	if in < 0 || in >= node.NewInfo(to).InCount() {
		return fmt.Errorf("%w: %s input %d", ErrUnknownPort, to, in)
	}

	key := inKey{id: to, in: in}
	if _, ok := p.inputs[key]; ok {
		return fmt.Errorf("%w: %s input %s", ErrDuplicateInput, to, node.NewInfo(to).InName(in))
	}

	p.inputs[key] = struct{}{}
	p.conns = append(p.conns, Connection{From: from, Out: out, To: to, In: in})

	return nil
}

// Set records a parameter value applied on the next Compile.
func (p *Patch) Set(pid node.ParamID, v float64) {
	for i := range p.params {
		if p.params[i].pid == pid {
			p.params[i].v = v
			return
		}
	}

	p.params = append(p.params, paramValue{pid: pid, v: v})
}

// Nodes returns the nodes in insertion order.
func (p *Patch) Nodes() []node.NodeID {
	return append([]node.NodeID(nil), p.nodes...)
}

// Connections returns the connections in insertion order.
func (p *Patch) Connections() []Connection {
	return append([]Connection(nil), p.conns...)
}

// Order returns the nodes sorted so every node comes after the nodes
// feeding it (Kahn's algorithm). Independent nodes keep insertion order.
func (p *Patch) Order() ([]node.NodeID, error) {
	indegree := make([]int, len(p.nodes))
	outgoing := make([][]int, len(p.nodes))

	for _, c := range p.conns {
		from, to := p.index[c.From], p.index[c.To]
		outgoing[from] = append(outgoing[from], to)
		indegree[to]++
	}

	done := make([]bool, len(p.nodes))
	order := make([]node.NodeID, 0, len(p.nodes))

	for len(order) < len(p.nodes) {
		next := -1

		for i, d := range indegree {
			if d == 0 && !done[i] {
				next = i
				break
			}
		}

		if next < 0 {
			return nil, fmt.Errorf("%w: %d of %d nodes unordered", ErrCycle, len(p.nodes)-len(order), len(p.nodes))
		}

		done[next] = true
		order = append(order, p.nodes[next])

		for _, to := range outgoing[next] {
			indegree[to]--
		}
	}

	return order, nil
}

// Compile creates the patch nodes in c, applies recorded parameters and
// builds a program in dependency order. The program is not uploaded.
func (p *Patch) Compile(c Compiler) (*prog.NodeProg, error) {
	order, err := p.Order()
	if err != nil {
		return nil, err
	}

	for _, id := range p.nodes {
		if _, _, err := c.CreateNode(id); err != nil {
			return nil, fmt.Errorf("patch: create %s: %w", id, err)
		}
	}

	for _, pv := range p.params {
		c.SetParam(pv.pid, pv.v)
	}

	np := c.RebuildNodePorts()

	for _, id := range order {
		c.AddProgNode(np, id)

		for _, conn := range p.conns {
			if conn.To == id {
				c.SetProgNodeExecConnection(np, conn.To, conn.In, conn.From, conn.Out)
			}
		}
	}

	return np, nil
}

// Upload compiles the patch and hands the program to c.
func (p *Patch) Upload(c Compiler, copyOldOut bool) (*prog.NodeProg, error) {
	np, err := p.Compile(c)
	if err != nil {
		return nil, err
	}

	c.UploadProg(np, copyOldOut)

	return np, nil
}
