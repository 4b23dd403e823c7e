package engine

import (
	"math"

	"github.com/cwbudde/algo-hexsynth/dsp/node"
)

const (
	fbSmoothing = 0.2
	fbPeakDecay = 0.9
)

type fbKey struct {
	id  node.NodeID
	out int // -1 for the LED
}

type fbState struct {
	gen  uint64
	avg  float64
	peak float64
}

// FeedbackFilter turns raw LED and output values into values fit for
// display: a running average and a decaying absolute peak per source. A
// source only takes a new sample once per TriggerRecalc, so the display
// rate does not depend on how often values are read.
type FeedbackFilter struct {
	gen    uint64
	states map[fbKey]*fbState
}

// NewFeedbackFilter returns an empty filter.
func NewFeedbackFilter() *FeedbackFilter {
	return &FeedbackFilter{gen: 1, states: make(map[fbKey]*fbState)}
}

// TriggerRecalc lets every source take one new sample on its next read.
func (f *FeedbackFilter) TriggerRecalc() {
	f.gen++
}

func (f *FeedbackFilter) get(key fbKey, v float64) (avg, peak float64) {
	s, ok := f.states[key]
	if !ok {
		s = &fbState{gen: f.gen, avg: v, peak: math.Abs(v)}
		f.states[key] = s

		return s.avg, s.peak
	}

	if s.gen != f.gen {
		s.gen = f.gen
		s.avg += fbSmoothing * (v - s.avg)
		s.peak = math.Max(math.Abs(v), s.peak*fbPeakDecay)
	}

	return s.avg, s.peak
}

// LED returns the filtered LED value of id given its raw value v.
func (f *FeedbackFilter) LED(id node.NodeID, v float64) (avg, peak float64) {
	return f.get(fbKey{id: id, out: -1}, v)
}

// Out returns the filtered value of output out of id given its raw value v.
func (f *FeedbackFilter) Out(id node.NodeID, out int, v float64) (avg, peak float64) {
	return f.get(fbKey{id: id, out: out}, v)
}

// Forget drops the state of id.
func (f *FeedbackFilter) Forget(id node.NodeID) {
	for k := range f.states {
		if k.id == id {
			delete(f.states, k)
		}
	}
}

// Reset drops all state.
func (f *FeedbackFilter) Reset() {
	clear(f.states)
}
