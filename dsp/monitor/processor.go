package monitor

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-hexsynth/internal/ringbuf"
)

// rateCell shares the sample rate between the audio thread and the
// monitor goroutine.
type rateCell struct {
	bits atomic.Uint64
}

func newRateCell(sr float64) *rateCell {
	c := &rateCell{}
	c.store(sr)

	return c
}

func (c *rateCell) load() float64 { return math.Float64frombits(c.bits.Load()) }

func (c *rateCell) store(sr float64) { c.bits.Store(math.Float64bits(sr)) }

type minMaxProc struct {
	hist   Samples
	cur    MinMax
	count  int
	window int
}

// feed summarizes samples into windows, carrying a partial window over to
// the next call. It returns the number of completed windows.
func (p *minMaxProc) feed(samples []float64) int {
	done := 0

	for _, v := range samples {
		p.cur.add(v)
		p.count++

		if p.count >= p.window {
			p.hist.push(p.cur)
			p.cur = emptyMinMax()
			p.count = 0
			done++
		}
	}

	return done
}

// rawRing keeps the most recent samples of a slot for spectrum analysis.
type rawRing struct {
	data  []float64
	write int
}

func (r *rawRing) add(samples []float64) {
	if len(r.data) == 0 {
		return
	}

	for _, v := range samples {
		r.data[r.write] = v
		r.write = (r.write + 1) % len(r.data)
	}
}

// copyTo writes the ring oldest first into dst, which has the ring's size.
func (r *rawRing) copyTo(dst []float64) {
	n := copy(dst, r.data[r.write:])
	copy(dst[n:], r.data[:r.write])
}

// Processor consumes tapped buffers and keeps per-slot histories.
type Processor struct {
	recv     *ringbuf.Queue[*Buf]
	recycle  *ringbuf.Queue[*Buf]
	rate     *rateCell
	lastRate float64
	procs    [SigCount]minMaxProc
	raw      [SigCount]rawRing
}

func newProcessor(recv, recycle *ringbuf.Queue[*Buf], rate *rateCell, rawLen int) *Processor {
	p := &Processor{recv: recv, recycle: recycle, rate: rate}
	for i := range p.procs {
		p.procs[i] = minMaxProc{cur: emptyMinMax()}
		p.raw[i] = rawRing{data: make([]float64, rawLen)}
	}

	p.syncRate()

	return p
}

// syncRate resizes the min/max windows after a sample rate change. A
// partial window is dropped; the history is kept.
func (p *Processor) syncRate() {
	sr := p.rate.load()
	if sr == p.lastRate {
		return
	}

	p.lastRate = sr

	w := WindowSize(sr)
	for i := range p.procs {
		p.procs[i].window = w
		p.procs[i].cur = emptyMinMax()
		p.procs[i].count = 0
	}
}

// Process drains all queued buffers. It reports whether any history
// received a new entry.
func (p *Processor) Process() bool {
	p.syncRate()

	updated := false

	for {
		buf, ok := p.recv.Pop()
		if !ok {
			return updated
		}

		if slot := buf.Slot(); slot >= 0 && slot < SigCount {
			if p.procs[slot].feed(buf.Samples()) > 0 {
				updated = true
			}

			p.raw[slot].add(buf.Samples())
		}

		p.recycle.Push(buf)
	}
}

// Samples returns the current history of slot.
func (p *Processor) Samples(slot int) *Samples {
	return &p.procs[slot].hist
}
