package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-fxfit/dsp/core"
)

// Generator creates deterministic test and reference signals.
type Generator struct {
	sampleRate int
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator for the given sample rate.
func NewGenerator(sampleRate int, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: generator sample rate must be > 0: %d", core.ErrInvalidConfig, sampleRate)
	}

	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g, nil
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() int { return g.sampleRate }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) (Signal, error) {
	if samples <= 0 {
		return Signal{}, fmt.Errorf("%w: sine samples must be > 0: %d", core.ErrInvalidConfig, samples)
	}

	out := make([]float32, samples)
	step := 2 * math.Pi * freqHz / float64(g.sampleRate)

	for i := range out {
		out[i] = float32(amplitude * math.Sin(step*float64(i)))
	}

	return Signal{SampleRate: g.sampleRate, Samples: out}, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) (Signal, error) {
	if samples <= 0 {
		return Signal{}, fmt.Errorf("%w: noise samples must be > 0: %d", core.ErrInvalidConfig, samples)
	}

	if amplitude < 0 {
		return Signal{}, fmt.Errorf("%w: noise amplitude must be >= 0: %f", core.ErrInvalidConfig, amplitude)
	}

	out := make([]float32, samples)
	rng := rand.New(rand.NewSource(g.seed))

	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}

	return Signal{SampleRate: g.sampleRate, Samples: out}, nil
}

// Impulse generates a unit impulse at sample 0 followed by silence.
func (g *Generator) Impulse(samples int) (Signal, error) {
	if samples <= 0 {
		return Signal{}, fmt.Errorf("%w: impulse samples must be > 0: %d", core.ErrInvalidConfig, samples)
	}

	out := make([]float32, samples)
	out[0] = 1

	return Signal{SampleRate: g.sampleRate, Samples: out}, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("%w: normalize target peak must be >= 0: %f", core.ErrInvalidConfig, targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: normalize input must not be empty", core.ErrInvalidConfig)
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}
