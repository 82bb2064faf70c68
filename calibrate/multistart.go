package calibrate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/effects/reverb"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
)

// FitMultiStart runs FitReverbGains from every initial guess in starts
// concurrently and returns the result with the lowest error. Ties go to the
// earliest start. The index of the winning start is returned with it.
func FitMultiStart(
	ctx context.Context,
	reference, target signal.Signal,
	topology reverb.Topology,
	starts [][]float64,
	opts ...Option,
) (Result, int, error) {
	if len(starts) == 0 {
		return Result{}, -1, fmt.Errorf("%w: no initial guesses", core.ErrInvalidConfig)
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return Result{}, -1, err
	}

	for i, s := range starts {
		if len(s) != len(topology.CombDelaysMs) {
			return Result{}, -1, fmt.Errorf("%w: start %d has %d gains for %d combs",
				core.ErrInvalidConfig, i, len(s), len(topology.CombDelaysMs))
		}
	}

	fixed := topology.WithCombGains(DefaultInitialGains(len(topology.CombDelaysMs)))

	obj, err := NewObjective(reference, target, fixed, cfg.excerptSeconds)
	if err != nil {
		return Result{}, -1, err
	}

	results := make([]Result, len(starts))
	g, gctx := errgroup.WithContext(ctx)

	for i, start := range starts {
		g.Go(func() error {
			startCfg := cfg
			startCfg.logger = cfg.logger.WithField("start", i)

			r, err := fit(gctx, obj, start, startCfg)
			if err != nil {
				return fmt.Errorf("start %d: %w", i, err)
			}

			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, -1, err
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].Error < results[best].Error {
			best = i
		}
	}

	cfg.logger.WithFields(logrus.Fields{
		"starts": len(starts),
		"best":   best,
		"error":  results[best].Error,
	}).Info("multi-start search finished")

	return results[best], best, nil
}
