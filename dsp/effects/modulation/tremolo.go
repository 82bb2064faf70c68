package modulation

import (
	"fmt"
	"math"
	"runtime"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
)

const defaultTremoloChunkSize = 16384

// TremoloOption mutates tremolo construction parameters.
type TremoloOption func(*tremoloConfig) error

type tremoloConfig struct {
	chunkSize int
	workers   int
}

func defaultTremoloConfig() tremoloConfig {
	return tremoloConfig{
		chunkSize: defaultTremoloChunkSize,
		workers:   runtime.GOMAXPROCS(0),
	}
}

// WithTremoloChunkSize sets the number of samples rendered per task.
func WithTremoloChunkSize(n int) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: tremolo chunk size must be >= 1: %d", core.ErrInvalidConfig, n)
		}

		cfg.chunkSize = n

		return nil
	}
}

// WithTremoloWorkers bounds the number of chunks rendered concurrently.
func WithTremoloWorkers(n int) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: tremolo workers must be >= 1: %d", core.ErrInvalidConfig, n)
		}

		cfg.workers = n

		return nil
	}
}

// Tremolo is a stateless amplitude modulator:
// y[n] = x[n] * (1 + depth*sin(2π*f*n/fs)).
// Samples carry no inter-sample state, so a buffer is split into chunks that
// are rendered concurrently. The result does not depend on the chunking.
type Tremolo struct {
	sampleRate float64
	modFreqHz  float64
	depth      float64
	chunkSize  int
	workers    int
}

// NewTremolo creates a tremolo. depth must be finite and >= 0.
func NewTremolo(sampleRate, modFreqHz, depth float64, opts ...TremoloOption) (*Tremolo, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("%w: tremolo sample rate must be > 0 and finite: %f", core.ErrInvalidConfig, sampleRate)
	}

	if !core.IsFinite(modFreqHz) {
		return nil, fmt.Errorf("%w: tremolo frequency must be finite: %f", core.ErrInvalidConfig, modFreqHz)
	}

	if depth < 0 || !core.IsFinite(depth) {
		return nil, fmt.Errorf("%w: tremolo depth must be >= 0 and finite: %f", core.ErrInvalidConfig, depth)
	}

	cfg := defaultTremoloConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Tremolo{
		sampleRate: sampleRate,
		modFreqHz:  modFreqHz,
		depth:      depth,
		chunkSize:  cfg.chunkSize,
		workers:    cfg.workers,
	}, nil
}

// Gain returns the modulation gain at absolute sample index n.
func (t *Tremolo) Gain(n int) float64 {
	return 1 + t.depth*math.Sin(2*math.Pi*t.modFreqHz*float64(n)/t.sampleRate)
}

// Render returns the modulated copy of x.
func (t *Tremolo) Render(x []float64) []float64 {
	out := make([]float64, len(x))
	gain := make([]float64, len(x))

	var g errgroup.Group
	g.SetLimit(t.workers)

	for lo := 0; lo < len(x); lo += t.chunkSize {
		hi := min(lo+t.chunkSize, len(x))

		g.Go(func() error {
			for n := lo; n < hi; n++ {
				gain[n] = t.Gain(n)
			}

			vecmath.MulBlock(out[lo:hi], x[lo:hi], gain[lo:hi])

			return nil
		})
	}

	// Chunks never fail.
	_ = g.Wait()

	return out
}

// RenderTremolo amplitude-modulates sig at modFreqHz with the given depth.
func RenderTremolo(sig signal.Signal, modFreqHz, depth float64, opts ...TremoloOption) (signal.Signal, error) {
	if err := sig.Validate(); err != nil {
		return signal.Signal{}, fmt.Errorf("tremolo render: %w", err)
	}

	t, err := NewTremolo(float64(sig.SampleRate), modFreqHz, depth, opts...)
	if err != nil {
		return signal.Signal{}, err
	}

	return signal.FromFloat64(sig.SampleRate, t.Render(sig.Float64())), nil
}
