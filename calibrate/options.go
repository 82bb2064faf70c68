package calibrate

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxfit/dsp/core"
)

const (
	defaultAbsoluteTolerance = 1e-12
	defaultRelativeTolerance = 1e-9
	defaultStallIterations   = 50
	defaultMaxEvaluations    = 2000
)

// Option mutates fit parameters.
type Option func(*config) error

type config struct {
	excerptSeconds float64
	absTol         float64
	relTol         float64
	stallIters     int
	maxEvals       int
	concurrent     int
	logger         logrus.FieldLogger
}

func defaultConfig() config {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	return config{
		excerptSeconds: DefaultExcerptSeconds,
		absTol:         defaultAbsoluteTolerance,
		relTol:         defaultRelativeTolerance,
		stallIters:     defaultStallIterations,
		maxEvals:       defaultMaxEvaluations,
		logger:         silent,
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}

// WithExcerptSeconds limits the objective to the first sec seconds of both
// signals.
func WithExcerptSeconds(sec float64) Option {
	return func(cfg *config) error {
		if sec <= 0 || !core.IsFinite(sec) {
			return fmt.Errorf("%w: excerpt must be > 0 seconds: %f", core.ErrInvalidConfig, sec)
		}

		cfg.excerptSeconds = sec

		return nil
	}
}

// WithTolerance sets the absolute and relative error improvement below which an
// iteration counts as stalled.
func WithTolerance(absolute, relative float64) Option {
	return func(cfg *config) error {
		if absolute < 0 || relative < 0 || !core.IsFinite(absolute) || !core.IsFinite(relative) {
			return fmt.Errorf("%w: tolerances must be >= 0 and finite: abs=%g rel=%g",
				core.ErrInvalidConfig, absolute, relative)
		}

		cfg.absTol = absolute
		cfg.relTol = relative

		return nil
	}
}

// WithStallIterations sets how many stalled iterations end the search.
func WithStallIterations(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("%w: stall iterations must be >= 1: %d", core.ErrInvalidConfig, n)
		}

		cfg.stallIters = n

		return nil
	}
}

// WithMaxEvaluations bounds the number of objective evaluations.
func WithMaxEvaluations(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("%w: max evaluations must be >= 1: %d", core.ErrInvalidConfig, n)
		}

		cfg.maxEvals = n

		return nil
	}
}

// WithConcurrency sets how many objective evaluations the minimizer may run
// at once. Results do not depend on it.
func WithConcurrency(n int) Option {
	return func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("%w: concurrency must be >= 0: %d", core.ErrInvalidConfig, n)
		}

		cfg.concurrent = n

		return nil
	}
}

// WithLogger sets the logger receiving progress entries. The default discards.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return fmt.Errorf("%w: logger must not be nil", core.ErrInvalidConfig)
		}

		cfg.logger = logger

		return nil
	}
}
