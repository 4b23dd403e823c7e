// Package window generates the analysis windows used by the monitor
// spectrum.
package window

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrUnknownType is returned by ParseType for names it does not know.
	ErrUnknownType = errors.New("window: unknown type")

	errMismatchedLength = errors.New("window: samples and coefficients must have same length")
	errZeroCoherentGain = errors.New("window: coherent gain is zero")
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a config name such as "hann" to its Type. The empty name
// selects TypeHann.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return TypeHann, nil
	}

	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	return out
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Apply multiplies samples in place by coeffs.
func Apply(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// CoherentGain returns sum(w[n]) / N, the DC response of the window.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errZeroCoherentGain
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return sum / float64(len(coeffs)), nil
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window: size must be > 0: %d", size)
	}

	return nil
}
