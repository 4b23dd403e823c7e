// Package smooth provides a linear ramp used to de-zipper parameter changes.
package smooth

import "math"

// DefaultTimeMS is the ramp duration used when none is configured.
const DefaultTimeMS = 10.0

// Smoother ramps linearly from a start value to a target over a fixed
// number of samples. The zero value is done and jumps straight to targets.
type Smoother struct {
	slope  int
	count  int
	value  float64
	target float64
	inc    float64
	active bool
}

// New returns a done smoother with a ramp of timeMS at sampleRate.
func New(sampleRate, timeMS float64) Smoother {
	var s Smoother
	s.SetTime(sampleRate, timeMS)

	return s
}

// SetTime sets the ramp length to ceil(sampleRate * timeMS / 1000) samples.
func (s *Smoother) SetTime(sampleRate, timeMS float64) {
	if sampleRate <= 0 || timeMS <= 0 {
		s.slope = 0
		return
	}

	s.slope = int(math.Ceil(sampleRate * timeMS / 1000))
}

// Slope returns the ramp length in samples.
func (s *Smoother) Slope() int {
	return s.slope
}

// Set starts a new ramp from current towards target.
func (s *Smoother) Set(current, target float64) {
	s.value = current
	s.target = target
	s.count = s.slope
	s.active = true

	if s.count == 0 {
		s.value = target
		s.inc = 0

		return
	}

	s.inc = (target - current) / float64(s.count)
}

// Next advances the ramp by one sample and returns the new value. Once the
// target has been reached the smoother reports Done and keeps returning the
// target.
func (s *Smoother) Next() float64 {
	if s.count == 0 {
		s.active = false
		s.value = s.target

		return s.value
	}

	s.value += s.inc
	s.count--

	if s.count == 0 || (s.inc > 0 && s.value > s.target) || (s.inc < 0 && s.value < s.target) {
		s.value = s.target
		s.count = 0
	}

	return s.value
}

// Done reports whether the smoother is free for a new ramp.
func (s *Smoother) Done() bool {
	return !s.active
}

// Stop marks the smoother done without changing its value.
func (s *Smoother) Stop() {
	s.active = false
	s.count = 0
}

// Value returns the last produced value.
func (s *Smoother) Value() float64 {
	return s.value
}

// Target returns the value the current ramp ends at.
func (s *Smoother) Target() float64 {
	return s.target
}
