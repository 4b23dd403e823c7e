package node

import "github.com/cwbudde/algo-hexsynth/dsp/event"

// AudioContext is the host side of one processing call. NFrames is at
// least 1 and at most MaxBlockSize when seen by a Node.
type AudioContext interface {
	NFrames() int
	Input(ch, frame int) float64
	Output(ch, frame int, v float64)
}

// ExecContext carries engine state shared by all nodes of one sub-block.
type ExecContext struct {
	SampleRate float64
	// Events holds the events of the current sub-block with frames relative
	// to its start, ordered by frame.
	Events []event.Event
}

// BufferContext is an AudioContext over plain channel slices.
type BufferContext struct {
	In     [][]float64
	Out    [][]float64
	Frames int
}

// NewBufferContext allocates inputs and outputs channels of frames samples.
func NewBufferContext(inputs, outputs, frames int) *BufferContext {
	b := &BufferContext{
		In:     make([][]float64, inputs),
		Out:    make([][]float64, outputs),
		Frames: frames,
	}

	for i := range b.In {
		b.In[i] = make([]float64, frames)
	}

	for i := range b.Out {
		b.Out[i] = make([]float64, frames)
	}

	return b
}

func (b *BufferContext) NFrames() int { return b.Frames }

func (b *BufferContext) Input(ch, frame int) float64 {
	if ch < 0 || ch >= len(b.In) {
		return 0
	}

	return b.In[ch][frame]
}

func (b *BufferContext) Output(ch, frame int, v float64) {
	if ch < 0 || ch >= len(b.Out) {
		return
	}

	b.Out[ch][frame] = v
}

// Clear zeroes all output channels.
func (b *BufferContext) Clear() {
	for _, ch := range b.Out {
		for i := range ch {
			ch[i] = 0
		}
	}
}
