package demo

import (
	"math"

	"github.com/cwbudde/algo-hexsynth/dsp/core"
	"github.com/cwbudde/algo-hexsynth/dsp/event"
	"gitlab.com/gomidi/midi/v2"
)

const (
	stepCount   = 16
	defaultGate = 0.5
)

// Step is one sequencer step.
type Step struct {
	Enabled bool
	Key     uint8
}

// Sequencer plays a looping step pattern as note events. Fill runs on the
// audio thread and does not allocate.
type Sequencer struct {
	sampleRate float64
	tempoBPM   float64
	shuffle    float64
	gate       float64

	steps [stepCount]Step
	on    [stepCount]event.Event
	off   [stepCount]event.Event

	current   int
	untilNext float64
	untilOff  float64
	held      int
}

// NewSequencer returns a sequencer on MIDI channel ch with the default
// pattern.
func NewSequencer(sampleRate, tempoBPM float64, ch uint8) *Sequencer {
	s := &Sequencer{
		sampleRate: sampleRate,
		tempoBPM:   110,
		gate:       defaultGate,
		untilOff:   math.Inf(1),
		held:       -1,
	}

	if sampleRate <= 0 {
		s.sampleRate = 44100
	}

	if tempoBPM > 0 {
		s.tempoBPM = tempoBPM
	}

	steps := make([]Step, stepCount)
	for i := range steps {
		steps[i] = Step{Enabled: i%4 != 3, Key: defaultStepKey(i)}
	}

	s.SetSteps(ch, steps)

	return s
}

// SetSteps replaces the pattern. Missing steps are disabled.
func (s *Sequencer) SetSteps(ch uint8, steps []Step) {
	for i := range stepCount {
		var st Step
		if i < len(steps) {
			st = steps[i]
		}

		s.steps[i] = st
		s.on[i], _ = event.FromMIDI(midi.NoteOn(ch, st.Key, 100), 0)
		s.off[i], _ = event.FromMIDI(midi.NoteOff(ch, st.Key), 0)
	}
}

// SetShuffle sets the swing amount in [0, 1].
func (s *Sequencer) SetShuffle(shuffle float64) {
	s.shuffle = core.Clamp(shuffle, 0, 1)
}

// SetGate sets the note length as a fraction of the step length.
func (s *Sequencer) SetGate(gate float64) {
	s.gate = core.Clamp(gate, 0.01, 1)
}

// Fill replaces the content of w with the events of the next frames
// samples.
func (s *Sequencer) Fill(w *event.Window, frames int) {
	w.Reset()

	end := float64(frames)

	for s.untilNext < end || s.untilOff < end {
		if s.untilOff <= s.untilNext {
			s.release(w, s.untilOff)
			continue
		}

		at := s.untilNext
		if s.held >= 0 {
			s.release(w, at)
		}

		dur := s.stepDuration(s.current)

		if st := s.steps[s.current]; st.Enabled {
			e := s.on[s.current]
			e.Frame = int(at)
			w.Add(e)

			s.held = s.current
			s.untilOff = at + dur*s.gate
		}

		s.current = (s.current + 1) % stepCount
		s.untilNext += dur
	}

	s.untilNext -= end
	s.untilOff -= end
}

func (s *Sequencer) release(w *event.Window, at float64) {
	if s.held >= 0 {
		e := s.off[s.held]
		e.Frame = int(at)
		w.Add(e)
	}

	s.held = -1
	s.untilOff = math.Inf(1)
}

func (s *Sequencer) stepDurationSamples() float64 {
	return s.sampleRate * 60.0 / s.tempoBPM / 4.0
}

func (s *Sequencer) stepDuration(step int) float64 {
	base := s.stepDurationSamples()

	ratio := shuffleRatio(s.shuffle)
	if ratio <= 0 {
		return base
	}

	if step%2 == 0 {
		return base * (1 + ratio)
	}

	return base * (1 - ratio)
}

func shuffleRatio(shuffle float64) float64 {
	// Map 0..1 control to 0..1/3 timing ratio with a gentle curve.
	return (1.0 / 3.0) * math.Pow(core.Clamp(shuffle, 0, 1), 1.6)
}

func defaultStepKey(i int) uint8 {
	keys := [...]uint8{48, 52, 55, 57, 60, 64, 67, 69}
	return keys[i%len(keys)]
}
