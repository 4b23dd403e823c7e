package node

import (
	"github.com/cwbudde/algo-hexsynth/dsp/core"
	"github.com/cwbudde/algo-hexsynth/dsp/event"
)

const (
	midiPFreq = iota
	midiPGate
	midiPVel
)

const midiPChan = 0

// MidiP follows the last note played on its channel. freq is a normalized
// pitch, gate is 1 while the note is held.
type MidiP struct {
	note int
	gate float64
	vel  float64
}

func newMidiP(NodeID) Node { return &MidiP{note: core.RefNote} }

func (*MidiP) Kind() Kind            { return KindMidiP }
func (*MidiP) SetSampleRate(float64) {}

func (m *MidiP) Reset() {
	m.note = core.RefNote
	m.gate = 0
	m.vel = 0
}

func (m *MidiP) Process(ctx AudioContext, ectx *ExecContext, atoms []SAtom, _, inputs, outputs []ProcBuf, led LedPhase) {
	n := ctx.NFrames()
	ch := uint8(atoms[midiPChan].I())
	det := inputs[0]
	freq, gate, vel := outputs[midiPFreq], outputs[midiPGate], outputs[midiPVel]

	var events []event.Event
	if ectx != nil {
		events = ectx.Events
	}

	next := 0
	for i := range n {
		for next < len(events) && events[next].Frame <= i {
			m.handle(events[next], ch)
			next++
		}

		freq[i] = core.NoteToPitch(m.note, denormDetune(det[i]))
		gate[i] = m.gate
		vel[i] = m.vel
	}

	led.Led.Set(m.gate)
	led.Phase.Set(m.vel)
}

func (m *MidiP) handle(e event.Event, ch uint8) {
	if e.Channel != ch {
		return
	}

	switch e.Kind {
	case event.NoteOn:
		m.note = int(e.Key)
		m.gate = 1
		m.vel = e.Value
	case event.NoteOff:
		if int(e.Key) == m.note {
			m.gate = 0
		}
	}
}
