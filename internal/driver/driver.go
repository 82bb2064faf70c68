package driver

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fxfit/calibrate"
	"github.com/cwbudde/algo-fxfit/dsp/effects/reverb"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
	"github.com/cwbudde/algo-fxfit/internal/wavio"
	"github.com/cwbudde/algo-fxfit/measure/ir"
	"github.com/cwbudde/algo-fxfit/measure/similarity"
	timestats "github.com/cwbudde/algo-fxfit/stats/time"
)

// Metrics scores a reconstruction against its target over their common length.
type Metrics struct {
	MSE float64
	// SNR is in dB.
	SNR float64
	// SpectralDistance is the log-spectral distance in dB.
	SpectralDistance float64
	// CombRT60 holds the closed-form decay time of each fitted comb in seconds.
	CombRT60 []float64
	// Decay is measured on the reconstruction's wet impulse response.
	Decay ir.Decay
	// Output summarizes the full-length reconstruction.
	Output timestats.Stats
}

// Outcome is the result of one effect. Err is nil or an *EffectError.
type Outcome struct {
	Effect string
	Fit    calibrate.Result
	// Start is the index of the winning initial guess, 0 for InitialGains.
	Start      int
	Render     reverb.RenderInfo
	Metrics    Metrics
	OutputPath string
	Err        error
}

// OK reports whether the effect completed every stage.
func (o Outcome) OK() bool { return o.Err == nil }

// OutputName returns the file name a reconstruction of effect is saved under.
func OutputName(effect string) string {
	return "reconstructed_" + strings.ReplaceAll(effect, " ", "_") + ".wav"
}

// Run calibrates every effect in cfg.Effects and returns one Outcome per
// effect in request order. The error is non-nil only for an invalid
// configuration or an unreadable dry reference.
func Run(ctx context.Context, cfg Config) ([]Outcome, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	dry, err := cfg.Source.Dry()
	if err != nil {
		return nil, fmt.Errorf("driver: dry reference: %w", err)
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("driver: %w", err)
		}
	}

	cfg.Logger.WithFields(logrus.Fields{
		"effects":     len(cfg.Effects),
		"sample_rate": dry.SampleRate,
		"seconds":     dry.Seconds(),
		"workers":     cfg.Workers,
	}).Info("calibration started")

	outcomes := make([]Outcome, len(cfg.Effects))

	var g errgroup.Group
	g.SetLimit(cfg.Workers)

	for i, name := range cfg.Effects {
		g.Go(func() error {
			outcomes[i] = runEffect(ctx, &cfg, dry, name)
			return nil
		})
	}

	_ = g.Wait()

	return outcomes, nil
}

func runEffect(ctx context.Context, cfg *Config, dry signal.Signal, name string) Outcome {
	log := cfg.Logger.WithField("effect", name)
	out := Outcome{Effect: name}

	fail := func(stage Stage, err error) Outcome {
		out.Err = newEffectError(name, stage, err)
		log.WithError(err).WithField("stage", stage).Error("effect failed")

		return out
	}

	target, err := cfg.Source.Target(name)
	if err != nil {
		return fail(StageLoad, err)
	}

	if len(cfg.ExtraStarts) == 0 {
		out.Fit, err = calibrate.FitReverbGains(ctx, dry, target, cfg.FitTopology, cfg.InitialGains, cfg.FitOptions...)
	} else {
		starts := append([][]float64{cfg.InitialGains}, cfg.ExtraStarts...)
		out.Fit, out.Start, err = calibrate.FitMultiStart(ctx, dry, target, cfg.FitTopology, starts, cfg.FitOptions...)
	}

	if err != nil {
		return fail(StageFit, err)
	}

	recon := cfg.ReconstructionTopology.WithCombGains(out.Fit.Gains)

	rendered, info, err := reverb.Render(dry, recon, reverb.WithClipGuard(cfg.ClipGuard))
	if err != nil {
		return fail(StageRender, err)
	}

	out.Render = info

	out.Metrics, err = score(target, rendered, recon, cfg)
	if err != nil {
		return fail(StageMeasure, err)
	}

	if cfg.OutputDir != "" {
		path := filepath.Join(cfg.OutputDir, OutputName(name))
		if err := wavio.Save(path, rendered); err != nil {
			return fail(StageSave, err)
		}

		out.OutputPath = path
	}

	log.WithFields(logrus.Fields{
		"gains":  out.Fit.Gains,
		"mse":    out.Metrics.MSE,
		"snr_db": out.Metrics.SNR,
		"lsd_db": out.Metrics.SpectralDistance,
		"rt60_s": out.Metrics.Decay.RT60,
		"peak":   out.Metrics.Output.Peak,
		"output": out.OutputPath,
	}).Info("effect reconstructed")

	return out
}

func score(target, rendered signal.Signal, recon reverb.Topology, cfg *Config) (Metrics, error) {
	output := rendered.Float64()
	ref, est := similarity.Align(target.Float64(), output)

	m := Metrics{Output: timestats.Calculate(output)}

	var err error

	if m.MSE, err = similarity.MSE(ref, est); err != nil {
		return Metrics{}, err
	}

	if m.SNR, err = similarity.SNR(ref, est); err != nil {
		return Metrics{}, err
	}

	if m.SpectralDistance, err = similarity.LogSpectralDistance(ref, est, cfg.FFTSize); err != nil {
		return Metrics{}, err
	}

	if m.CombRT60, m.Decay, err = decay(recon, rendered.SampleRate, cfg.MaxImpulseSeconds); err != nil {
		return Metrics{}, err
	}

	return m, nil
}

// decay returns the per-comb RT60 and the decay of the wet impulse response,
// rendered long enough for the slowest comb but no longer than maxSeconds.
func decay(recon reverb.Topology, sampleRate int, maxSeconds float64) ([]float64, ir.Decay, error) {
	fs := float64(sampleRate)

	wet := recon.Clone()
	wet.WetGain = 1

	engine, err := reverb.NewSchroeder(fs, wet)
	if err != nil {
		return nil, ir.Decay{}, err
	}

	delays := engine.CombDelays()
	combRT60 := make([]float64, len(delays))

	longest := 0.0

	for i, d := range delays {
		combRT60[i], err = ir.CombRT60(d, wet.CombGains[i], fs)
		if err != nil {
			return nil, ir.Decay{}, fmt.Errorf("comb %d: %w", i, err)
		}

		longest = max(longest, combRT60[i])
	}

	n := max(1, int(math.Ceil(math.Min(1.2*longest, maxSeconds)*fs)))
	h := make([]float64, n)
	h[0] = 1
	engine.ProcessInPlace(h)

	d, err := ir.NewAnalyzer(fs).Analyze(h)
	if err != nil {
		return nil, ir.Decay{}, err
	}

	return combRT60, d, nil
}
