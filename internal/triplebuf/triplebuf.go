// Package triplebuf implements a wait-free triple buffer: one writer
// publishes whole snapshots while one reader always sees the latest complete
// one.
package triplebuf

import "sync/atomic"

const dirtyBit = 1 << 2

// Buffer holds three copies of T. Input and Publish belong to the writer,
// Update and Output to the reader. Neither side ever blocks.
type Buffer[T any] struct {
	bufs [3]T

	// back is the index of the shared buffer, or'ed with dirtyBit when the
	// writer published since the reader last swapped.
	back atomic.Uint32

	write uint32
	read  uint32
}

// New creates a buffer whose three copies are produced by alloc.
func New[T any](alloc func() T) *Buffer[T] {
	b := &Buffer[T]{write: 0, read: 1}
	for i := range b.bufs {
		b.bufs[i] = alloc()
	}

	b.back.Store(2)

	return b
}

// Input returns the writer's private copy.
func (b *Buffer[T]) Input() *T {
	return &b.bufs[b.write]
}

// Publish makes the writer's copy visible to the reader and takes the
// previous back buffer as the next private copy.
func (b *Buffer[T]) Publish() {
	prev := b.back.Swap(b.write | dirtyBit)
	b.write = prev &^ dirtyBit
}

// Update swaps in the most recently published copy. It reports whether a
// new copy was available.
func (b *Buffer[T]) Update() bool {
	if b.back.Load()&dirtyBit == 0 {
		return false
	}

	prev := b.back.Swap(b.read)
	b.read = prev &^ dirtyBit

	return true
}

// Output returns the reader's current copy.
func (b *Buffer[T]) Output() *T {
	return &b.bufs[b.read]
}
