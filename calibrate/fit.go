package calibrate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/effects/reverb"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
)

// Result is the outcome of a gain fit. It is not modified after return.
type Result struct {
	Gains       []float64
	Error       float64
	Iterations  int
	Evaluations int
	Status      string
}

// FitReverbGains searches comb gains of topology that make the reverb of
// reference match target, starting from initialGains. The topology's own
// comb gains are ignored.
//
// Invalid inputs are reported as core.ErrInvalidConfig before the search
// starts. Reaching the evaluation budget is not an error; Status says why the
// search stopped. A cancelled ctx aborts the search with ctx.Err().
func FitReverbGains(
	ctx context.Context,
	reference, target signal.Signal,
	topology reverb.Topology,
	initialGains []float64,
	opts ...Option,
) (Result, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return Result{}, err
	}

	if len(initialGains) != len(topology.CombDelaysMs) {
		return Result{}, fmt.Errorf("%w: %d initial gains for %d combs",
			core.ErrInvalidConfig, len(initialGains), len(topology.CombDelaysMs))
	}

	// Only delays and all-pass settings matter; comb gains come from the search.
	fixed := topology.WithCombGains(DefaultInitialGains(len(topology.CombDelaysMs)))

	obj, err := NewObjective(reference, target, fixed, cfg.excerptSeconds)
	if err != nil {
		return Result{}, err
	}

	return fit(ctx, obj, initialGains, cfg)
}

func fit(ctx context.Context, obj *Objective, initialGains []float64, cfg config) (Result, error) {
	log := cfg.logger.WithFields(logrus.Fields{
		"combs":   len(initialGains),
		"samples": obj.Len(),
	})

	problem := optimize.Problem{
		Func: obj.Evaluate,
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}

			return optimize.NotTerminated, nil
		},
	}

	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   cfg.absTol,
			Relative:   cfg.relTol,
			Iterations: cfg.stallIters,
		},
		FuncEvaluations: cfg.maxEvals,
		Concurrent:      cfg.concurrent,
	}

	initialError := obj.Evaluate(initialGains)
	log.WithFields(logrus.Fields{
		"initial_gains": initialGains,
		"initial_error": initialError,
	}).Debug("starting gain search")

	res, err := optimize.Minimize(problem, append([]float64(nil), initialGains...), settings, &optimize.NelderMead{})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}

	if err != nil {
		return Result{}, fmt.Errorf("gain search: %w", err)
	}

	out := Result{
		Gains:       append([]float64(nil), res.X...),
		Error:       res.F,
		Iterations:  res.MajorIterations,
		Evaluations: res.FuncEvaluations,
		Status:      res.Status.String(),
	}

	log.WithFields(logrus.Fields{
		"gains":       out.Gains,
		"error":       out.Error,
		"iterations":  out.Iterations,
		"evaluations": out.Evaluations,
		"status":      out.Status,
	}).Info("gain search finished")

	return out, nil
}
