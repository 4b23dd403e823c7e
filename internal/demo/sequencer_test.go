package demo

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-hexsynth/dsp/event"
)

func TestSequencerTiming(t *testing.T) {
	t.Parallel()

	// 120 BPM at 8 kHz: one sixteenth is 1000 samples.
	s := NewSequencer(8000, 120, 2)
	s.SetSteps(2, []Step{{Enabled: true, Key: 60}, {Enabled: false}, {Enabled: true, Key: 64}})

	w := event.NewWindow(8)
	s.Fill(w, 2500)

	got := w.Pull(0, 2500, make([]event.Event, 0, 8))
	want := []event.Event{
		{Frame: 0, Kind: event.NoteOn, Channel: 2, Key: 60, Value: 100.0 / 127},
		{Frame: 500, Kind: event.NoteOff, Channel: 2, Key: 60},
		{Frame: 2000, Kind: event.NoteOn, Channel: 2, Key: 64, Value: 100.0 / 127},
	}

	if len(got) != len(want) {
		t.Fatalf("events = %+v, want %+v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	// The held note ends in the next block, frames relative to it.
	s.Fill(w, 1000)

	next := w.Pull(0, 1000, make([]event.Event, 0, 8))
	if len(next) != 1 || next[0].Kind != event.NoteOff || next[0].Frame != 0 {
		t.Fatalf("next block events = %+v", next)
	}
}

func TestSequencerLegatoReleasesFirst(t *testing.T) {
	t.Parallel()

	s := NewSequencer(8000, 120, 0)
	s.SetGate(1)
	s.SetSteps(0, []Step{{Enabled: true, Key: 60}, {Enabled: true, Key: 62}})

	w := event.NewWindow(8)
	s.Fill(w, 1500)

	got := w.Pull(0, 1500, make([]event.Event, 0, 8))
	if len(got) != 3 {
		t.Fatalf("events = %+v, want on, off, on", got)
	}

	if got[1].Kind != event.NoteOff || got[2].Kind != event.NoteOn || got[1].Frame != got[2].Frame {
		t.Fatalf("events = %+v, want the off before the next on", got)
	}
}

func TestSequencerShuffle(t *testing.T) {
	t.Parallel()

	s := NewSequencer(8000, 120, 0)
	s.SetShuffle(1)

	even, odd := s.stepDuration(0), s.stepDuration(1)
	if even <= odd || math.Abs(even+odd-2000) > 1e-9 {
		t.Fatalf("step durations = %v, %v", even, odd)
	}
}

func TestSequencerFillDoesNotAllocate(t *testing.T) {
	s := NewSequencer(44100, 180, 0)
	w := event.NewWindow(64)

	allocs := testing.AllocsPerRun(100, func() {
		s.Fill(w, 256)
	})

	if allocs != 0 {
		t.Fatalf("Fill() allocs = %v, want 0", allocs)
	}
}
