package monitor

import "math"

const (
	// SigCount is the number of monitor slots: three inputs then three
	// outputs of the monitored node.
	SigCount = 6
	// HistoryLen is the number of min/max entries kept per slot.
	HistoryLen = 160
	// HistorySeconds is the time span covered by one history.
	HistorySeconds = 3
	// Unused marks a slot that taps nothing.
	Unused = -1
)

// MinMax is the extreme values of one window.
type MinMax struct {
	Min, Max float64
}

func emptyMinMax() MinMax {
	return MinMax{Min: math.Inf(1), Max: math.Inf(-1)}
}

func (m *MinMax) add(v float64) {
	if v < m.Min {
		m.Min = v
	}

	if v > m.Max {
		m.Max = v
	}
}

// Samples is a circular min/max history. At(0) is the oldest entry.
type Samples struct {
	entries [HistoryLen]MinMax
	write   int
}

func (s *Samples) push(m MinMax) {
	s.entries[s.write] = m
	s.write = (s.write + 1) % HistoryLen
}

// At returns entry i counted from the oldest.
func (s *Samples) At(i int) MinMax {
	return s.entries[(s.write+i)%HistoryLen]
}

// Latest returns the most recent entry.
func (s *Samples) Latest() MinMax {
	return s.At(HistoryLen - 1)
}

// Len returns HistoryLen.
func (s *Samples) Len() int { return HistoryLen }

// WindowSize returns the number of samples summarized by one history entry.
func WindowSize(sampleRate float64) int {
	w := int(sampleRate*HistorySeconds) / HistoryLen
	if w < 1 {
		return 1
	}

	return w
}
