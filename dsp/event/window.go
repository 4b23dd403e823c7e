package event

import "sort"

// Window collects the events of one host buffer and hands them out per
// sub-block. Its storage is fixed at construction, so Add and Pull never
// allocate.
type Window struct {
	events []Event
}

// NewWindow returns a window that holds up to capacity events.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}

	return &Window{events: make([]Event, 0, capacity)}
}

// Reset drops all events.
func (w *Window) Reset() {
	w.events = w.events[:0]
}

// Len returns the number of pending events.
func (w *Window) Len() int {
	return len(w.events)
}

// Add inserts e keeping frame order. Events with the same frame keep their
// insertion order. Add returns false when the window is full.
func (w *Window) Add(e Event) bool {
	if len(w.events) == cap(w.events) {
		return false
	}

	i := sort.Search(len(w.events), func(i int) bool { return w.events[i].Frame > e.Frame })
	w.events = append(w.events, Event{})
	copy(w.events[i+1:], w.events[i:])
	w.events[i] = e

	return true
}

// Pull appends the events in [offset, offset+frames) to dst with frames made
// relative to offset. It stops when dst is full, so a dst with spare
// capacity is never grown.
func (w *Window) Pull(offset, frames int, dst []Event) []Event {
	end := offset + frames

	start := sort.Search(len(w.events), func(i int) bool { return w.events[i].Frame >= offset })
	for _, e := range w.events[start:] {
		if e.Frame >= end || len(dst) == cap(dst) {
			break
		}

		e.Frame -= offset
		dst = append(dst, e)
	}

	return dst
}
