package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/interp"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
)

const (
	defaultFlangerRateHz      = 0.5
	defaultFlangerDepthMs     = 2.0
	defaultFlangerBaseDelayMs = 1.0
	defaultFlangerWetGain     = 0.7
)

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*flangerConfig) error

type flangerConfig struct {
	rateHz      float64
	depthMs     float64
	baseDelayMs float64
	wet         float64
}

func defaultFlangerConfig() flangerConfig {
	return flangerConfig{
		rateHz:      defaultFlangerRateHz,
		depthMs:     defaultFlangerDepthMs,
		baseDelayMs: defaultFlangerBaseDelayMs,
		wet:         defaultFlangerWetGain,
	}
}

// WithFlangerRateHz sets LFO speed in Hz.
func WithFlangerRateHz(rateHz float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if rateHz < 0 || !core.IsFinite(rateHz) {
			return fmt.Errorf("%w: flanger rate must be >= 0 and finite: %f", core.ErrInvalidConfig, rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithFlangerDepthMs sets the delay sweep in milliseconds.
func WithFlangerDepthMs(depthMs float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if depthMs < 0 || !core.IsFinite(depthMs) {
			return fmt.Errorf("%w: flanger depth must be >= 0 and finite: %f", core.ErrInvalidConfig, depthMs)
		}

		cfg.depthMs = depthMs

		return nil
	}
}

// WithFlangerBaseDelayMs sets the minimum delay in milliseconds.
func WithFlangerBaseDelayMs(baseDelayMs float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if baseDelayMs < 0 || !core.IsFinite(baseDelayMs) {
			return fmt.Errorf("%w: flanger base delay must be >= 0 and finite: %f", core.ErrInvalidConfig, baseDelayMs)
		}

		cfg.baseDelayMs = baseDelayMs

		return nil
	}
}

// WithFlangerWetGain sets the gain of the delayed path.
func WithFlangerWetGain(wet float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if wet < 0 || wet > 1 || !core.IsFinite(wet) {
			return fmt.Errorf("%w: flanger wet gain must be in [0, 1]: %f", core.ErrInvalidConfig, wet)
		}

		cfg.wet = wet

		return nil
	}
}

// Flanger is a feed-forward flanger over a fully materialized buffer:
// y[n] = x[n] + wet * x(n - base - lfo*depth), read with linear interpolation
// and zero outside the input.
type Flanger struct {
	sampleRate   float64
	rateHz       float64
	baseSamples  int
	depthSamples int
	wet          float64
}

// NewFlanger creates a flanger with the unit's defaults and optional overrides.
// Base delay and depth are truncated to whole samples.
func NewFlanger(sampleRate float64, opts ...FlangerOption) (*Flanger, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("%w: flanger sample rate must be > 0 and finite: %f", core.ErrInvalidConfig, sampleRate)
	}

	cfg := defaultFlangerConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Flanger{
		sampleRate:   sampleRate,
		rateHz:       cfg.rateHz,
		baseSamples:  core.TruncMillisecondsToSamples(cfg.baseDelayMs, sampleRate),
		depthSamples: core.TruncMillisecondsToSamples(cfg.depthMs, sampleRate),
		wet:          cfg.wet,
	}, nil
}

// Render returns the flanged copy of x. Each call starts a fresh LFO at phase 0.
func (f *Flanger) Render(x []float64) []float64 {
	// Validated in NewFlanger.
	lfo, _ := NewLFO(f.rateHz, f.sampleRate)

	base := float64(f.baseSamples)
	depth := float64(f.depthSamples)
	out := make([]float64, len(x))

	for n := range x {
		d := base + lfo.Unipolar()*depth
		out[n] = x[n] + f.wet*interp.ReadLinear(x, float64(n)-d)

		lfo.Advance()
	}

	return out
}

// SampleRate returns sample rate in Hz.
func (f *Flanger) SampleRate() float64 { return f.sampleRate }

// RateHz returns LFO speed in Hz.
func (f *Flanger) RateHz() float64 { return f.rateHz }

// BaseDelaySamples returns the base delay in whole samples.
func (f *Flanger) BaseDelaySamples() int { return f.baseSamples }

// DepthSamples returns the sweep depth in whole samples.
func (f *Flanger) DepthSamples() int { return f.depthSamples }

// WetGain returns the delayed path gain.
func (f *Flanger) WetGain() float64 { return f.wet }

// RenderFlanger flangs sig with the given LFO rate, sweep depth and base delay
// and the default wet gain.
func RenderFlanger(sig signal.Signal, rateHz, depthMs, baseDelayMs float64) (signal.Signal, error) {
	if err := sig.Validate(); err != nil {
		return signal.Signal{}, fmt.Errorf("flanger render: %w", err)
	}

	f, err := NewFlanger(float64(sig.SampleRate),
		WithFlangerRateHz(rateHz),
		WithFlangerDepthMs(depthMs),
		WithFlangerBaseDelayMs(baseDelayMs),
	)
	if err != nil {
		return signal.Signal{}, err
	}

	return signal.FromFloat64(sig.SampleRate, f.Render(sig.Float64())), nil
}
