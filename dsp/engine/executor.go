package engine

import (
	"github.com/cwbudde/algo-hexsynth/dsp/event"
	"github.com/cwbudde/algo-hexsynth/dsp/monitor"
	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/dsp/prog"
	"github.com/cwbudde/algo-hexsynth/dsp/smooth"
	"github.com/cwbudde/algo-hexsynth/internal/ringbuf"
)

// EventSource fills dst with the events of the sub-block [offset,
// offset+frames) of the current host block, with frames relative to
// offset. It must not grow dst beyond its capacity.
type EventSource func(offset, frames int, dst []event.Event) []event.Event

type smootherSlot struct {
	idx int
	sm  smooth.Smoother
}

// subBlock is the AudioContext nodes see: a window of at most
// node.MaxBlockSize frames into the host context.
type subBlock struct {
	host   node.AudioContext
	offset int
	frames int
}

func (s *subBlock) NFrames() int { return s.frames }

func (s *subBlock) Input(ch, frame int) float64 {
	return s.host.Input(ch, s.offset+frame)
}

func (s *subBlock) Output(ch, frame int, v float64) {
	s.host.Output(ch, s.offset+frame, v)
}

// Executor runs programs on the audio thread. Its methods must only be
// called from that thread. They never block or allocate.
type Executor struct {
	nodes     []node.Node
	prog      *prog.NodeProg
	smoothers []smootherSlot
	monitors  [monitor.SigCount]int

	graph   *ringbuf.Queue[GraphMessage]
	quick   *ringbuf.Queue[QuickMessage]
	drop    *ringbuf.Queue[DropMsg]
	ctxVals []node.AtomicFloat
	backend *monitor.Backend
	metrics *Metrics

	sampleRate float64
	smoothMS   float64

	sub      subBlock
	ectx     node.ExecContext
	events   EventSource
	eventBuf []event.Event
}

// SetSampleRate updates every installed node, the smoother ramps and the
// monitor windows.
func (e *Executor) SetSampleRate(sr float64) {
	if sr <= 0 {
		return
	}

	e.sampleRate = sr
	e.ectx.SampleRate = sr
	e.backend.SetSampleRate(sr)

	for _, nd := range e.nodes {
		if nd != nil {
			nd.SetSampleRate(sr)
		}
	}

	for i := range e.smoothers {
		e.smoothers[i].sm.SetTime(sr, e.smoothMS)
	}
}

// SampleRate returns the current sample rate.
func (e *Executor) SampleRate() float64 { return e.sampleRate }

// SetEventSource installs the callback that delivers timed events per
// sub-block. Passing nil disables events.
func (e *Executor) SetEventSource(src EventSource) {
	e.events = src
}

// ProcessGraphUpdates installs queued nodes and programs.
func (e *Executor) ProcessGraphUpdates() {
	for {
		msg, ok := e.graph.Pop()
		if !ok {
			return
		}

		switch msg.Kind {
		case GraphNewNode:
			e.installNode(msg.Index, msg.Node)
		case GraphNewProg:
			e.installProg(msg.Prog, msg.CopyOldOut)
		case GraphClear:
			for i, nd := range e.nodes {
				if nd != nil {
					e.nodes[i] = nil
					e.retire(DropMsg{Kind: DropNode, Node: nd})
				}
			}

			e.installProg(msg.Prog, false)
		case GraphResetNodes:
			for _, nd := range e.nodes {
				if nd != nil {
					nd.Reset()
				}
			}
		}
	}
}

func (e *Executor) installNode(idx int, nd node.Node) {
	if idx < 0 || idx >= len(e.nodes) {
		if nd != nil {
			e.retire(DropMsg{Kind: DropNode, Node: nd})
		}

		return
	}

	if nd != nil {
		nd.SetSampleRate(e.sampleRate)
		nd.Reset()
	}

	prev := e.nodes[idx]
	e.nodes[idx] = nd

	if prev != nil {
		e.retire(DropMsg{Kind: DropNode, Node: prev})
	}
}

// installProg makes p the running program. With copyOldOut the inputs are
// first filled from p's own parameters, then the previous program's input
// buffers and values take over the slots both share.
func (e *Executor) installProg(p *prog.NodeProg, copyOldOut bool) {
	if p == nil {
		p = prog.Empty()
	}

	prev := e.prog
	e.prog = p

	p.InitializeInputBuffers()

	if copyOldOut {
		p.SwapPreviousInputs(prev)

		for i := range e.smoothers {
			if s := &e.smoothers[i]; !s.sm.Done() && s.idx >= len(p.Params) {
				s.sm.Stop()
			}
		}
	} else {
		for i := range e.smoothers {
			e.smoothers[i].sm.Stop()
		}
	}

	p.AssignInputs()

	for i := range e.monitors {
		e.monitors[i] = monitor.Unused
	}

	if prev != nil {
		e.retire(DropMsg{Kind: DropProg, Prog: prev})
	}
}

func (e *Executor) retire(msg DropMsg) {
	if !e.drop.Push(msg) {
		e.metrics.DropOverflow.Inc()
	}
}

// Process runs one host block. Blocks larger than node.MaxBlockSize are
// split; parameter updates, smoothing and events are handled per sub-block.
func (e *Executor) Process(ctx node.AudioContext) {
	e.backend.CheckRecycle()

	total := ctx.NFrames()
	for offset := 0; offset < total; offset += node.MaxBlockSize {
		n := min(node.MaxBlockSize, total-offset)
		e.sub = subBlock{host: ctx, offset: offset, frames: n}

		e.processParamUpdates(n)
		e.pullEvents(offset, n)
		e.runProgram(n)
		e.tapMonitors(n)
	}

	e.metrics.Blocks.Inc()
}

func (e *Executor) pullEvents(offset, n int) {
	if e.events == nil {
		e.ectx.Events = nil
		return
	}

	evs := e.events(offset, n, e.eventBuf[:0])
	e.ectx.Events = evs[:min(len(evs), cap(e.eventBuf))]
}

// processParamUpdates applies queued quick messages and advances every
// active smoother by n frames.
func (e *Executor) processParamUpdates(n int) {
	p := e.prog

	for {
		msg, ok := e.quick.Pop()
		if !ok {
			break
		}

		switch msg.Kind {
		case QuickParamUpdate:
			e.setParam(msg.Index, msg.Value)
		case QuickAtomUpdate:
			if msg.Index >= 0 && msg.Index < len(p.Atoms) {
				old := p.Atoms[msg.Index]
				p.Atoms[msg.Index] = msg.Atom
				e.retire(DropMsg{Kind: DropAtom, Atom: old})
			}
		case QuickSetMonitor:
			e.monitors = msg.Monitor
		}
	}

	for i := range e.smoothers {
		s := &e.smoothers[i]
		if s.sm.Done() || s.idx >= len(p.Inp) {
			continue
		}

		buf := p.Inp[s.idx]
		for f := range n {
			buf[f] = s.sm.Next()
		}

		// Frames past n keep the last value so a longer next block reads
		// no stale ramp.
		buf[n:].Fill(buf[n-1])
		p.Params[s.idx] = buf[n-1]
	}
}

// setParam retargets the smoother already ramping idx, or claims a free
// one. Without a free smoother the update is dropped.
func (e *Executor) setParam(idx int, v float64) {
	p := e.prog
	if idx < 0 || idx >= len(p.Params) {
		return
	}

	for i := range e.smoothers {
		if s := &e.smoothers[i]; !s.sm.Done() && s.idx == idx {
			s.sm.Set(p.Params[idx], v)
			return
		}
	}

	for i := range e.smoothers {
		if s := &e.smoothers[i]; s.sm.Done() {
			s.idx = idx
			s.sm.Set(p.Params[idx], v)

			return
		}
	}

	e.metrics.SmootherExhausted.Inc()
}

func (e *Executor) runProgram(n int) {
	p := e.prog
	fb := *p.Feedback().Input()
	last := n - 1

	for i := range p.Ops {
		op := &p.Ops[i]
		p.CopyEdges(op, n)

		if op.Idx < 0 || op.Idx >= len(e.nodes) {
			continue
		}

		nd := e.nodes[op.Idx]
		if nd == nil || nd.Kind() != op.Kind {
			continue
		}

		led := node.LedPhase{Led: &e.ctxVals[2*op.Idx], Phase: &e.ctxVals[2*op.Idx+1]}
		nd.Process(&e.sub, &e.ectx,
			p.Atoms[op.At.Start:op.At.End],
			p.Inp[op.In.Start:op.In.End],
			p.CurInp[op.In.Start:op.In.End],
			p.Out[op.Out.Start:op.Out.End],
			led)

		for j := op.Out.Start; j < op.Out.End; j++ {
			fb[j] = p.Out[j][last]
		}
	}

	p.Feedback().Publish()
}

func (e *Executor) tapMonitors(n int) {
	p := e.prog

	const half = monitor.SigCount / 2

	for slot, idx := range e.monitors {
		if idx == monitor.Unused {
			continue
		}

		var src node.ProcBuf

		switch {
		case slot < half && idx < len(p.CurInp):
			src = p.CurInp[idx]
		case slot >= half && idx < len(p.Out):
			src = p.Out[idx]
		default:
			continue
		}

		buf, ok := e.backend.UnusedBuf()
		if !ok {
			e.metrics.MonitorDropped.Inc()
			continue
		}

		buf.Feed(slot, src[:n])

		if !e.backend.Send(buf) {
			e.metrics.MonitorDropped.Inc()
		}
	}
}

// Prog returns the running program. It is meant for tests and tooling on
// the audio thread.
func (e *Executor) Prog() *prog.NodeProg { return e.prog }
