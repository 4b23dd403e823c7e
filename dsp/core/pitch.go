package core

import "math"

const (
	// PitchRefHz is the frequency of normalized pitch 0 (A4).
	PitchRefHz = 440.0
	// PitchOctaves is the number of octaves covered by one normalized unit.
	PitchOctaves = 10.0
	// RefNote is the MIDI note number of PitchRefHz.
	RefNote = 69
)

// PitchToFreq maps a normalized pitch to Hz. Every 0.1 is one octave and 0
// is A4 = 440 Hz.
func PitchToFreq(pitch float64) float64 {
	return PitchRefHz * math.Exp2(PitchOctaves*pitch)
}

// FreqToPitch is the inverse of PitchToFreq, clamped to [-1, 1].
// Non-positive frequencies map to -1.
func FreqToPitch(hz float64) float64 {
	if hz <= 0 {
		return -1
	}

	return Clamp(math.Log2(hz/PitchRefHz)/PitchOctaves, -1, 1)
}

// NoteToPitch returns the normalized pitch of a MIDI note plus a detune in
// semitones.
func NoteToPitch(note int, semitones float64) float64 {
	return (float64(note-RefNote) + semitones) / (12 * PitchOctaves)
}

// SemitonesToRatio returns the frequency ratio of an interval in semitones.
func SemitonesToRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}
