package monitor

import "github.com/cwbudde/algo-hexsynth/internal/ringbuf"

// Buf is one block of tapped samples for one slot.
type Buf struct {
	slot int
	n    int
	data []float64
}

func newBuf(size int) *Buf {
	return &Buf{data: make([]float64, size)}
}

// Feed copies src into the buffer for slot.
func (b *Buf) Feed(slot int, src []float64) {
	b.slot = slot
	b.n = copy(b.data, src)
}

// Slot returns the slot the buffer was fed for.
func (b *Buf) Slot() int { return b.slot }

// Samples returns the fed samples.
func (b *Buf) Samples() []float64 { return b.data[:b.n] }

// Backend is the audio-thread end of a monitor. None of its methods block
// or allocate.
type Backend struct {
	send    *ringbuf.Queue[*Buf]
	recycle *ringbuf.Queue[*Buf]
	rate    *rateCell
	unused  []*Buf
}

// SetSampleRate tells the monitor the rate of the tapped signals. Min/max
// windows and spectrum bin frequencies follow it from the next poll.
func (b *Backend) SetSampleRate(sr float64) {
	if sr > 0 {
		b.rate.store(sr)
	}
}

// CheckRecycle takes back buffers the processor is done with.
func (b *Backend) CheckRecycle() {
	for {
		buf, ok := b.recycle.Pop()
		if !ok {
			return
		}

		b.unused = append(b.unused, buf)
	}
}

// UnusedBuf returns a free buffer, or false when all are in flight.
func (b *Backend) UnusedBuf() (*Buf, bool) {
	n := len(b.unused)
	if n == 0 {
		return nil, false
	}

	buf := b.unused[n-1]
	b.unused = b.unused[:n-1]

	return buf, true
}

// Send queues a fed buffer for processing. When the queue is full the
// buffer is kept for reuse and Send returns false.
func (b *Backend) Send(buf *Buf) bool {
	if b.send.Push(buf) {
		return true
	}

	b.unused = append(b.unused, buf)

	return false
}

// Free returns the number of buffers available to the audio thread.
func (b *Backend) Free() int { return len(b.unused) }
