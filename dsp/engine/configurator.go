package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-hexsynth/dsp/monitor"
	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/dsp/prog"
	"github.com/cwbudde/algo-hexsynth/internal/ringbuf"
	"github.com/cwbudde/algo-hexsynth/internal/triplebuf"
)

var (
	// ErrNopNode is returned when allocating the Nop id.
	ErrNopNode = errors.New("engine: cannot create nop node")
	// ErrUnknownKind is returned for ids outside the known kinds.
	ErrUnknownKind = errors.New("engine: unknown node kind")
	// ErrNodeTableFull is returned when MaxAllocatedNodes is reached.
	ErrNodeTableFull = errors.New("engine: node table full")
)

type slot struct {
	info node.Info
	inst *NodeInstance
}

type inputParam struct {
	idx   int
	value float64
}

type atomParam struct {
	idx   int
	value node.SAtom
}

// Configurator is the control thread end of the engine. It is not safe
// for concurrent use; all calls must come from one goroutine.
type Configurator struct {
	cfg     Config
	log     *slog.Logger
	metrics *Metrics

	nodes    []slot
	node2idx map[node.NodeID]int

	// params and atoms map to arena slots of the next program and are
	// rebuilt with the instances. The *Values maps hold what the user set
	// and survive rebuilds.
	params      map[node.ParamID]inputParam
	paramValues map[node.ParamID]float64
	atoms       map[node.ParamID]atomParam
	atomValues  map[node.ParamID]node.SAtom

	outFB    []float64
	fbReader *triplebuf.Buffer[[]float64]
	filter   *FeedbackFilter

	graph   *ringbuf.Queue[GraphMessage]
	quick   *ringbuf.Queue[QuickMessage]
	ctxVals []node.AtomicFloat

	mon     *monitor.Monitor
	drop    *DropThread
	closing sync.Once
}

// Config returns the configuration the engine was built with.
func (c *Configurator) Config() Config { return c.cfg }

// Metrics returns the engine counters.
func (c *Configurator) Metrics() *Metrics { return c.metrics }

// CreateNode allocates id and sends its audio-side node to the executor.
// Creating an existing id returns its slot without sending anything. Free
// slots are reused before the table grows.
func (c *Configurator) CreateNode(id node.NodeID) (node.Info, int, error) {
	if id.IsNop() {
		return node.Info{}, 0, ErrNopNode
	}

	if idx, ok := c.node2idx[id]; ok {
		return c.nodes[idx].info, idx, nil
	}

	nd, info, ok := node.New(id)
	if !ok {
		return node.Info{}, 0, fmt.Errorf("%w: %s", ErrUnknownKind, id)
	}

	idx := c.freeSlot()
	if idx < 0 {
		if len(c.nodes) >= c.cfg.MaxAllocatedNodes {
			return node.Info{}, 0, fmt.Errorf("%w: %d nodes", ErrNodeTableFull, len(c.nodes))
		}

		idx = len(c.nodes)
		grown := min((len(c.nodes)+1)*2, c.cfg.MaxAllocatedNodes)
		c.nodes = append(c.nodes, make([]slot, grown-len(c.nodes))...)
	}

	c.nodes[idx] = slot{info: info}
	c.node2idx[id] = idx
	c.ctxVals[2*idx].Set(0)
	c.ctxVals[2*idx+1].Set(0)

	c.pushGraph(GraphMessage{Kind: GraphNewNode, Index: idx, Node: nd})
	c.metrics.NodesCreated.Inc()
	c.log.Debug("node created", "node", id, "slot", idx)

	return info, idx, nil
}

func (c *Configurator) freeSlot() int {
	for i := range c.nodes {
		if c.nodes[i].info.ID().IsNop() {
			return i
		}
	}

	return -1
}

// DeleteNode frees the slot of id. The executor retires the node; the
// caller rebuilds and uploads a program without it.
func (c *Configurator) DeleteNode(id node.NodeID) {
	idx, ok := c.node2idx[id]
	if !ok {
		return
	}

	c.nodes[idx] = slot{}
	delete(c.node2idx, id)
	c.forgetParams(id)
	c.filter.Forget(id)

	c.pushGraph(GraphMessage{Kind: GraphNewNode, Index: idx})
	c.log.Debug("node deleted", "node", id, "slot", idx)
}

// DeleteNodes frees every slot and installs an empty program.
func (c *Configurator) DeleteNodes() {
	for i := range c.nodes {
		c.nodes[i] = slot{}
	}

	clear(c.node2idx)
	clear(c.params)
	clear(c.paramValues)
	clear(c.atoms)
	clear(c.atomValues)
	c.filter.Reset()

	empty := prog.Empty()
	c.fbReader = empty.Feedback()
	c.outFB = c.outFB[:0]

	c.pushGraph(GraphMessage{Kind: GraphClear, Prog: empty})
	c.log.Debug("all nodes deleted")
}

// ResetNodes returns every node to its initial state, such as oscillator
// phase and filter memory, without touching parameters or the program.
func (c *Configurator) ResetNodes() {
	c.filter.Reset()
	c.pushGraph(GraphMessage{Kind: GraphResetNodes})
	c.log.Debug("nodes reset")
}

func (c *Configurator) forgetParams(id node.NodeID) {
	for pid := range c.paramValues {
		if pid.Node == id {
			delete(c.paramValues, pid)
		}
	}

	for pid := range c.atomValues {
		if pid.Node == id {
			delete(c.atomValues, pid)
		}
	}

	for pid := range c.params {
		if pid.Node == id {
			delete(c.params, pid)
		}
	}

	for pid := range c.atoms {
		if pid.Node == id {
			delete(c.atoms, pid)
		}
	}
}

// RebuildNodePorts lays out the ports of all allocated nodes in slot order
// and returns an empty program with matching arenas. Values set earlier
// are kept by ParamID; new ports get their defaults.
func (c *Configurator) RebuildNodePorts() *prog.NodeProg {
	clear(c.params)
	clear(c.atoms)

	var outLen, inLen, atLen int

	for i := range c.nodes {
		s := &c.nodes[i]

		id := s.info.ID()
		if id.IsNop() {
			s.inst = nil
			continue
		}

		inst := &NodeInstance{
			ID:      id,
			Slot:    i,
			ProgIdx: -1,
			Out:     prog.Range{Start: outLen, End: outLen + s.info.OutCount()},
			In:      prog.Range{Start: inLen, End: inLen + s.info.InCount()},
			At:      prog.Range{Start: atLen, End: atLen + s.info.AtCount()},
		}
		s.inst = inst

		outLen, inLen, atLen = inst.Out.End, inst.In.End, inst.At.End

		for k := range s.info.InCount() {
			pid, _ := id.InpParamByIdx(k)

			v, ok := c.paramValues[pid]
			if !ok {
				v = pid.NormDef()
				c.paramValues[pid] = v
			}

			c.params[pid] = inputParam{idx: inst.In.Start + k, value: v}
		}

		for k := range s.info.AtCount() {
			pid, _ := id.AtomParamByIdx(k)

			v, ok := c.atomValues[pid]
			if !ok {
				v = pid.AtomDef()
				c.atomValues[pid] = v
			}

			c.atoms[pid] = atomParam{idx: inst.At.Start + k, value: v}
		}
	}

	c.log.Debug("node ports rebuilt", "outputs", outLen, "inputs", inLen, "atoms", atLen)

	return prog.New(outLen, inLen, atLen)
}

// AddProgNode appends the op of id to p. Unknown ids are ignored.
func (c *Configurator) AddProgNode(p *prog.NodeProg, id node.NodeID) {
	inst, ok := c.Instance(id)
	if !ok {
		return
	}

	pos, _ := p.AppendOp(inst.op())
	inst.ProgIdx = pos
	inst.used = true
}

// SetProgNodeExecConnection makes input port inPort of inID read output
// port outPort of outID in p. The edge is attached to inID's op, which is
// appended if inID has none yet. Unknown ids or ports are ignored.
func (c *Configurator) SetProgNodeExecConnection(p *prog.NodeProg, inID node.NodeID, inPort int, outID node.NodeID, outPort int) {
	dst, ok := c.Instance(inID)
	if !ok {
		return
	}

	src, ok := c.Instance(outID)
	if !ok {
		return
	}

	in, ok := dst.InLocal2Global(inPort)
	if !ok {
		return
	}

	out, ok := src.OutLocal2Global(outPort)
	if !ok {
		return
	}

	if pos := p.AppendEdge(dst.op(), in, out); pos >= 0 {
		dst.ProgIdx = pos
		dst.used = true
	}
}

// UploadProg fills p with the current parameter and atom values and sends
// it to the executor. With copyOldOut the executor carries the input
// state of the running program over, for uploads that only append nodes.
func (c *Configurator) UploadProg(p *prog.NodeProg, copyOldOut bool) {
	for _, ip := range c.params {
		if ip.idx < len(p.Params) {
			p.Params[ip.idx] = ip.value
		}
	}

	for _, ap := range c.atoms {
		if ap.idx < len(p.Atoms) {
			p.Atoms[ap.idx] = ap.value
		}
	}

	c.fbReader = p.Feedback()

	n := len(*c.fbReader.Output())
	if cap(c.outFB) < n {
		c.outFB = make([]float64, n)
	} else {
		c.outFB = c.outFB[:n]
		clear(c.outFB)
	}

	c.pushGraph(GraphMessage{Kind: GraphNewProg, Prog: p, CopyOldOut: copyOldOut})
	c.metrics.ProgsUploaded.Inc()
	c.log.Debug("program uploaded", "ops", len(p.Ops), "copy_old_out", copyOldOut)
}

// UnusedInstanceNodeID returns the first allocated instance of id's kind
// that the last built program does not use, or else the first instance
// number that was never allocated. It returns Nop when every instance
// number is taken. The result reflects the last RebuildNodePorts and the
// ops added since.
func (c *Configurator) UnusedInstanceNodeID(id node.NodeID) node.NodeID {
	for i := range 256 {
		cand := id.WithInstance(uint8(i))

		idx, ok := c.node2idx[cand]
		if !ok {
			continue
		}

		if inst := c.nodes[idx].inst; inst != nil && !inst.used {
			return cand
		}
	}

	for i := range 256 {
		cand := id.WithInstance(uint8(i))
		if _, ok := c.node2idx[cand]; !ok {
			return cand
		}
	}

	return node.Nop
}

// SetParam sets an input parameter to the normalized value v and ramps the
// running program towards it. Atom ids are stored as param atoms.
func (c *Configurator) SetParam(pid node.ParamID, v float64) {
	if !pid.Valid() {
		return
	}

	if pid.IsAtom() {
		c.SetAtom(pid, node.ParamAtom(v))
		return
	}

	c.paramValues[pid] = v

	if ip, ok := c.params[pid]; ok {
		ip.value = v
		c.params[pid] = ip
		c.pushQuick(QuickMessage{Kind: QuickParamUpdate, Index: ip.idx, Value: v})
	}
}

// SetAtom sets an atom and replaces it in the running program.
func (c *Configurator) SetAtom(pid node.ParamID, at node.SAtom) {
	if !pid.Valid() || !pid.IsAtom() {
		return
	}

	c.atomValues[pid] = at

	if ap, ok := c.atoms[pid]; ok {
		ap.value = at
		c.atoms[pid] = ap
		c.pushQuick(QuickMessage{Kind: QuickAtomUpdate, Index: ap.idx, Atom: at})
	}
}

// ParamValue returns the value set for pid, or its default.
func (c *Configurator) ParamValue(pid node.ParamID) float64 {
	if v, ok := c.paramValues[pid]; ok {
		return v
	}

	return pid.NormDef()
}

// AtomValue returns the atom set for pid, or its default.
func (c *Configurator) AtomValue(pid node.ParamID) node.SAtom {
	if v, ok := c.atomValues[pid]; ok {
		return v
	}

	return pid.AtomDef()
}

// UpdateOutputFeedback copies the latest output values published by the
// executor.
func (c *Configurator) UpdateOutputFeedback() {
	if c.fbReader == nil {
		return
	}

	c.fbReader.Update()
	copy(c.outFB, *c.fbReader.Output())
}

// OutFbFor returns the last sample of output out of id as of the last
// UpdateOutputFeedback.
func (c *Configurator) OutFbFor(id node.NodeID, out int) (float64, bool) {
	inst, ok := c.Instance(id)
	if !ok {
		return 0, false
	}

	g, ok := inst.OutLocal2Global(out)
	if !ok || g >= len(c.outFB) {
		return 0, false
	}

	return c.outFB[g], true
}

// LedValueFor returns the LED value of id.
func (c *Configurator) LedValueFor(id node.NodeID) float64 {
	idx, ok := c.node2idx[id]
	if !ok {
		return 0
	}

	return c.ctxVals[2*idx].Get()
}

// PhaseValueFor returns the phase value of id.
func (c *Configurator) PhaseValueFor(id node.NodeID) float64 {
	idx, ok := c.node2idx[id]
	if !ok {
		return 0
	}

	return c.ctxVals[2*idx+1].Get()
}

// FilteredLedFor returns the display average and peak of id's LED.
func (c *Configurator) FilteredLedFor(id node.NodeID) (avg, peak float64) {
	return c.filter.LED(id, c.LedValueFor(id))
}

// FilteredOutFbFor returns the display average and peak of an output.
func (c *Configurator) FilteredOutFbFor(id node.NodeID, out int) (avg, peak float64) {
	v, _ := c.OutFbFor(id, out)
	return c.filter.Out(id, out, v)
}

// TriggerFeedbackRecalc lets filtered values take one new sample.
func (c *Configurator) TriggerFeedbackRecalc() {
	c.filter.TriggerRecalc()
}

// Monitor taps up to three inputs and three outputs of id, given as port
// indices. Negative indices leave a slot untapped.
func (c *Configurator) Monitor(id node.NodeID, inputs, outputs []int) {
	inst, ok := c.Instance(id)
	if !ok {
		return
	}

	var taps [monitor.SigCount]int
	for i := range taps {
		taps[i] = monitor.Unused
	}

	const half = monitor.SigCount / 2

	for i, in := range inputs[:min(len(inputs), half)] {
		if g, ok := inst.InLocal2Global(in); ok {
			taps[i] = g
		}
	}

	for i, out := range outputs[:min(len(outputs), half)] {
		if g, ok := inst.OutLocal2Global(out); ok {
			taps[half+i] = g
		}
	}

	c.pushQuick(QuickMessage{Kind: QuickSetMonitor, Monitor: taps})
}

// MinMaxMonitorSamples returns the min/max history of a monitor slot.
func (c *Configurator) MinMaxMonitorSamples(slot int) (monitor.Samples, error) {
	return c.mon.MinMaxSamples(slot)
}

// MonitorSpectrum returns the magnitude spectrum of a monitor slot.
func (c *Configurator) MonitorSpectrum(slot int) ([]float64, error) {
	return c.mon.Spectrum(slot)
}

// MonitorBinFrequency returns the frequency of a MonitorSpectrum bin.
func (c *Configurator) MonitorBinFrequency(k int) float64 {
	return c.mon.BinFrequency(k)
}

// CheckNewMonitorData reports whether monitor histories changed since the
// last call.
func (c *Configurator) CheckNewMonitorData() bool {
	return c.mon.CheckNewData()
}

// Instance returns the instance of id from the last RebuildNodePorts.
func (c *Configurator) Instance(id node.NodeID) (*NodeInstance, bool) {
	idx, ok := c.node2idx[id]
	if !ok || c.nodes[idx].inst == nil {
		return nil, false
	}

	return c.nodes[idx].inst, true
}

// Info returns the info of an allocated node.
func (c *Configurator) Info(id node.NodeID) (node.Info, bool) {
	idx, ok := c.node2idx[id]
	if !ok {
		return node.Info{}, false
	}

	return c.nodes[idx].info, true
}

// ForEach calls fn for every allocated node in slot order.
func (c *Configurator) ForEach(fn func(info node.Info, slot int)) {
	for i := range c.nodes {
		if !c.nodes[i].info.ID().IsNop() {
			fn(c.nodes[i].info, i)
		}
	}
}

// NodeCount returns the number of allocated nodes.
func (c *Configurator) NodeCount() int {
	return len(c.node2idx)
}

// TableLen returns the current size of the node table.
func (c *Configurator) TableLen() int {
	return len(c.nodes)
}

// Close stops the drop and monitor goroutines. Call it after the audio
// thread stopped calling the executor.
func (c *Configurator) Close() {
	c.closing.Do(func() {
		c.mon.Close()
		c.drop.Close()
		c.log.Debug("engine closed")
	})
}

func (c *Configurator) pushGraph(msg GraphMessage) {
	if !c.graph.Push(msg) {
		c.metrics.GraphDropped.Inc()
		c.log.Warn("graph queue full, update dropped", "kind", msg.Kind, "slot", msg.Index)
	}
}

func (c *Configurator) pushQuick(msg QuickMessage) {
	if !c.quick.Push(msg) {
		c.metrics.QuickDropped.Inc()
		c.log.Warn("quick queue full, update dropped", "kind", msg.Kind, "index", msg.Index)
	}
}
