// Package event carries timestamped control events (MIDI notes and
// controllers) into the audio thread, windowed per processing block.
package event

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// Kind identifies the event type.
type Kind uint8

const (
	NoteOn Kind = iota
	NoteOff
	Control
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	case Control:
		return "cc"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is a control event at a frame offset relative to the start of the
// block it is delivered in.
type Event struct {
	Frame   int
	Kind    Kind
	Channel uint8
	// Key is the note number for note events and the controller number for
	// Control events.
	Key uint8
	// Value is the velocity or controller value scaled to [0, 1].
	Value float64
}

// FromMIDI converts a channel voice message. Note-on with velocity 0 is
// reported as NoteOff. Unsupported messages return false.
func FromMIDI(msg midi.Message, frame int) (Event, bool) {
	var ch, key, val uint8

	switch {
	case msg.GetNoteStart(&ch, &key, &val):
		return Event{Frame: frame, Kind: NoteOn, Channel: ch, Key: key, Value: float64(val) / 127}, true
	case msg.GetNoteEnd(&ch, &key):
		return Event{Frame: frame, Kind: NoteOff, Channel: ch, Key: key}, true
	case msg.GetControlChange(&ch, &key, &val):
		return Event{Frame: frame, Kind: Control, Channel: ch, Key: key, Value: float64(val) / 127}, true
	default:
		return Event{}, false
	}
}
