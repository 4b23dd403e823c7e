package monitor

import (
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-hexsynth/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

type spectrum struct {
	mu     sync.Mutex
	size   int
	rate   *rateCell
	plan   *algofft.Plan[complex128]
	window []float64
	scale  float64
	in     []float64
	buf    []complex128
	re, im []float64
}

func newSpectrum(size int, typ window.Type, rate *rateCell) *spectrum {
	s := &spectrum{
		size:   size,
		rate:   rate,
		window: window.Generate(typ, size, window.WithPeriodic()),
		in:     make([]float64, size),
		buf:    make([]complex128, size),
		re:     make([]float64, size/2+1),
		im:     make([]float64, size/2+1),
	}

	// A full-scale bin-centered sine reads 1.
	cg, err := window.CoherentGain(s.window)
	if err != nil {
		cg = 1
	}

	s.scale = 2 / (float64(size) * cg)

	return s
}

// compute transforms s.in. The caller holds s.mu.
func (s *spectrum) compute() ([]float64, error) {
	if s.plan == nil {
		plan, err := algofft.NewPlan64(s.size)
		if err != nil {
			return nil, fmt.Errorf("monitor: spectrum plan: %w", err)
		}

		s.plan = plan
	}

	if err := window.Apply(s.in, s.window); err != nil {
		return nil, fmt.Errorf("monitor: spectrum: %w", err)
	}

	for i, v := range s.in {
		s.buf[i] = complex(v, 0)
	}

	if err := s.plan.Forward(s.buf, s.buf); err != nil {
		return nil, fmt.Errorf("monitor: spectrum: %w", err)
	}

	for k := range s.re {
		s.re[k] = real(s.buf[k])
		s.im[k] = imag(s.buf[k])
	}

	mag := make([]float64, len(s.re))
	vecmath.Magnitude(mag, s.re, s.im)
	vecmath.ScaleBlock(mag, mag, s.scale)

	return mag, nil
}

func (s *spectrum) binFrequency(k int) float64 {
	return float64(k) * s.rate.load() / float64(s.size)
}
