// Package ringbuf provides a bounded lock-free queue for handing values from
// exactly one producer goroutine to exactly one consumer goroutine.
//
// Push and Pop never allocate and never block, which makes the queue safe to
// use from a real-time audio callback.
package ringbuf

import "sync/atomic"

// Queue is a single-producer/single-consumer ring buffer. Push must only be
// called from the producer side and Pop only from the consumer side.
type Queue[T any] struct {
	mask uint64

	_pad0 [56]byte
	head  atomic.Uint64 // next slot to read, written by the consumer
	_pad1 [56]byte
	tail  atomic.Uint64 // next slot to write, written by the producer
	_pad2 [56]byte

	slots []T
}

// New returns a queue holding at least capacity values. The capacity is
// rounded up to the next power of two, with a minimum of 2.
func New[T any](capacity int) *Queue[T] {
	size := NextPowerOfTwo(capacity)

	return &Queue[T]{
		mask:  uint64(size - 1),
		slots: make([]T, size),
	}
}

// NextPowerOfTwo returns the smallest power of two >= n, and at least 2.
func NextPowerOfTwo(n int) int {
	size := 2
	for size < n {
		size <<= 1
	}

	return size
}

// Push appends v. It returns false without blocking when the queue is full.
func (q *Queue[T]) Push(v T) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() > q.mask {
		return false
	}

	q.slots[tail&q.mask] = v
	q.tail.Store(tail + 1)

	return true
}

// Pop removes the oldest value. It returns false when the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T

	head := q.head.Load()
	if head == q.tail.Load() {
		return zero, false
	}

	slot := &q.slots[head&q.mask]
	v := *slot
	*slot = zero
	q.head.Store(head + 1)

	return v, true
}

// Len returns the number of queued values. The result is only a snapshot when
// called concurrently with Push or Pop.
func (q *Queue[T]) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Cap returns the number of values the queue can hold.
func (q *Queue[T]) Cap() int {
	return len(q.slots)
}
