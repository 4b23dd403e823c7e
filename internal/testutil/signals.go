package testutil

import "math"

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp generates length values stepping linearly from start by step.
func Ramp(start, step float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Peak returns the largest absolute value in data.
func Peak(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		peak = math.Max(peak, math.Abs(v))
	}
	return peak
}
