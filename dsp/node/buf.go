package node

import (
	"math"
	"sync/atomic"
)

// MaxBlockSize is the largest number of frames a node processes per call.
const MaxBlockSize = 128

// ProcBuf is a fixed-size sample buffer of MaxBlockSize frames.
type ProcBuf []float64

// NewProcBuf allocates a zeroed buffer.
func NewProcBuf() ProcBuf {
	return make(ProcBuf, MaxBlockSize)
}

// Fill sets every frame to v.
func (b ProcBuf) Fill(v float64) {
	for i := range b {
		b[i] = v
	}
}

// AtomicFloat is a float64 that is read and written atomically.
type AtomicFloat struct {
	bits atomic.Uint64
}

// Get returns the stored value.
func (a *AtomicFloat) Get() float64 {
	return math.Float64frombits(a.bits.Load())
}

// Set stores v.
func (a *AtomicFloat) Set(v float64) {
	a.bits.Store(math.Float64bits(v))
}

// LedPhase are the two feedback cells of a node. The executor writes them,
// the configurator reads them.
type LedPhase struct {
	Led   *AtomicFloat
	Phase *AtomicFloat
}

// Discard returns cells that nobody reads, for running nodes outside an
// engine.
func Discard() LedPhase {
	return LedPhase{Led: new(AtomicFloat), Phase: new(AtomicFloat)}
}
