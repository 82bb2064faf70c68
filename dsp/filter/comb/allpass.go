package comb

import (
	"fmt"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/delay"
)

// AllpassForm selects the output equation of an Allpass.
type AllpassForm int

const (
	// FormInputFeedforward computes y = -g*x + d, where d is the delayed
	// internal state and the line stores x + g*d. This is the equation the
	// reference hardware calibration was performed with. Its impulse response
	// is -g at n = 0 followed by 1, g, g^2, ... at multiples of M, so it is
	// stable but not lossless.
	FormInputFeedforward AllpassForm = iota

	// FormLattice computes the textbook Schroeder all-pass y = -g*v + d with
	// v = x + g*d. It preserves signal energy.
	FormLattice
)

// String returns a human-readable form name.
func (f AllpassForm) String() string {
	switch f {
	case FormInputFeedforward:
		return "input-feedforward"
	case FormLattice:
		return "lattice"
	default:
		return fmt.Sprintf("AllpassForm(%d)", int(f))
	}
}

// AllpassOption mutates all-pass construction parameters.
type AllpassOption func(*allpassConfig) error

type allpassConfig struct {
	form AllpassForm
}

// WithAllpassForm selects the all-pass output equation.
func WithAllpassForm(form AllpassForm) AllpassOption {
	return func(cfg *allpassConfig) error {
		if form != FormInputFeedforward && form != FormLattice {
			return fmt.Errorf("%w: unknown all-pass form: %d", core.ErrInvalidConfig, int(form))
		}

		cfg.form = form

		return nil
	}
}

// Allpass is a Schroeder all-pass diffusion stage.
type Allpass struct {
	gain float64
	form AllpassForm
	line *delay.Line
}

// NewAllpass creates an all-pass filter with a delay of delaySamples and gain.
func NewAllpass(delaySamples int, gain float64, opts ...AllpassOption) (*Allpass, error) {
	cfg := allpassConfig{form: FormInputFeedforward}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if !core.IsStableGain(gain) {
		return nil, fmt.Errorf("%w: all-pass gain must satisfy |g| < 1: %f", core.ErrInvalidConfig, gain)
	}

	line, err := delay.New(delaySamples)
	if err != nil {
		return nil, fmt.Errorf("all-pass: %w", err)
	}

	return &Allpass{gain: gain, form: cfg.form, line: line}, nil
}

// ProcessSample processes one sample.
func (a *Allpass) ProcessSample(x float64) float64 {
	delayed := a.line.Read()
	v := x + a.gain*delayed
	a.line.Write(v)

	if a.form == FormLattice {
		return -a.gain*v + delayed
	}

	return -a.gain*x + delayed
}

// ProcessInPlace filters buf in place.
func (a *Allpass) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = a.ProcessSample(buf[i])
	}
}

// Reset clears the delay line.
func (a *Allpass) Reset() {
	a.line.Reset()
}

// Gain returns the feedback gain.
func (a *Allpass) Gain() float64 { return a.gain }

// Delay returns the delay length in samples.
func (a *Allpass) Delay() int { return a.line.Len() }

// Form returns the output equation in use.
func (a *Allpass) Form() AllpassForm { return a.form }
