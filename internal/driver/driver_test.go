package driver

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-fxfit/calibrate"
	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/effects/reverb"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
	"github.com/cwbudde/algo-fxfit/internal/library"
	"github.com/cwbudde/algo-fxfit/internal/testutil"
	"github.com/cwbudde/algo-fxfit/internal/wavio"
)

const testRate = 8000

type memSource struct {
	dry     signal.Signal
	dryErr  error
	targets map[string]signal.Signal
}

func (m *memSource) Dry() (signal.Signal, error) { return m.dry, m.dryErr }

func (m *memSource) Target(name string) (signal.Signal, error) {
	sig, ok := m.targets[name]
	if !ok {
		return signal.Signal{}, library.ErrUnknownEffect
	}

	return sig, nil
}

func renderTarget(t *testing.T, dry signal.Signal, gains []float64) signal.Signal {
	t.Helper()

	out, _, err := reverb.Render(dry, calibrate.DefaultTopology().WithCombGains(gains))
	if err != nil {
		t.Fatal(err)
	}

	return out
}

func testSource(t *testing.T) *memSource {
	t.Helper()

	dry := signal.FromFloat64(testRate, testutil.DeterministicNoise(3, 0.5, testRate/2))

	return &memSource{
		dry: dry,
		targets: map[string]signal.Signal{
			"HALL": renderTarget(t, dry, []float64{0.7, 0.75, 0.72, 0.69}),
			"ROOM": renderTarget(t, dry, []float64{0.5, 0.55, 0.6, 0.52}),
		},
	}
}

func testConfig(src Source, effects ...string) Config {
	cfg := DefaultConfig(src)
	cfg.Effects = effects
	cfg.FitOptions = []calibrate.Option{
		calibrate.WithExcerptSeconds(0.25),
		calibrate.WithMaxEvaluations(200),
	}

	return cfg
}

func TestRunReconstructsEffects(t *testing.T) {
	src := testSource(t)
	cfg := testConfig(src, "ROOM", "HALL")
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")

	outcomes, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(outcomes) != 2 || outcomes[0].Effect != "ROOM" || outcomes[1].Effect != "HALL" {
		t.Fatalf("outcomes out of order: %+v", outcomes)
	}

	for _, o := range outcomes {
		if !o.OK() {
			t.Fatalf("%s: %v", o.Effect, o.Err)
		}

		if len(o.Fit.Gains) != 4 || o.Fit.Evaluations == 0 {
			t.Fatalf("%s: fit=%+v", o.Effect, o.Fit)
		}

		if math.IsNaN(o.Metrics.SNR) || math.IsNaN(o.Metrics.MSE) || o.Metrics.SpectralDistance < 0 {
			t.Fatalf("%s: metrics=%+v", o.Effect, o.Metrics)
		}

		if o.Metrics.Output.Length != src.dry.Len() || !(o.Metrics.Output.Peak > 0) {
			t.Fatalf("%s: output stats=%+v", o.Effect, o.Metrics.Output)
		}

		if len(o.Metrics.CombRT60) != 4 {
			t.Fatalf("%s: CombRT60=%v", o.Effect, o.Metrics.CombRT60)
		}

		for i, rt := range o.Metrics.CombRT60 {
			if !(rt > 0) {
				t.Fatalf("%s: CombRT60[%d]=%g", o.Effect, i, rt)
			}
		}

		if o.Render.Scale != 1 || o.Render.ClipGuardApplied {
			t.Fatalf("%s: clip guard ran while disabled: %+v", o.Effect, o.Render)
		}

		want := filepath.Join(cfg.OutputDir, OutputName(o.Effect))
		if o.OutputPath != want {
			t.Fatalf("%s: OutputPath=%q want=%q", o.Effect, o.OutputPath, want)
		}

		saved, err := wavio.Load(o.OutputPath)
		if err != nil {
			t.Fatalf("%s: %v", o.Effect, err)
		}

		if saved.SampleRate != testRate || saved.Len() != src.dry.Len() {
			t.Fatalf("%s: saved rate=%d len=%d", o.Effect, saved.SampleRate, saved.Len())
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	src := testSource(t)
	src.targets["FAST"] = signal.Signal{SampleRate: 2 * testRate, Samples: src.dry.Samples}

	for _, workers := range []int{1, 3} {
		cfg := testConfig(src, "MISSING", "HALL", "FAST")
		cfg.Workers = workers

		outcomes, err := Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("workers=%d: Run() error = %v", workers, err)
		}

		var effErr *EffectError

		if !errors.As(outcomes[0].Err, &effErr) || effErr.Stage != StageLoad || effErr.Effect != "MISSING" {
			t.Fatalf("workers=%d: MISSING err=%v", workers, outcomes[0].Err)
		}

		if !errors.Is(outcomes[0].Err, library.ErrUnknownEffect) {
			t.Fatalf("workers=%d: cause not preserved: %v", workers, outcomes[0].Err)
		}

		if !outcomes[1].OK() {
			t.Fatalf("workers=%d: HALL err=%v", workers, outcomes[1].Err)
		}

		if !errors.As(outcomes[2].Err, &effErr) || effErr.Stage != StageFit {
			t.Fatalf("workers=%d: FAST err=%v", workers, outcomes[2].Err)
		}

		if !errors.Is(outcomes[2].Err, core.ErrInvalidConfig) {
			t.Fatalf("workers=%d: FAST cause=%v", workers, outcomes[2].Err)
		}

		if outcomes[1].OutputPath != "" {
			t.Fatalf("workers=%d: saved without output dir", workers)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := Run(ctx, testConfig(testSource(t), "HALL", "ROOM"))
	if err != nil {
		t.Fatal(err)
	}

	for _, o := range outcomes {
		var effErr *EffectError
		if !errors.As(o.Err, &effErr) || effErr.Stage != StageFit || !errors.Is(o.Err, context.Canceled) {
			t.Fatalf("%s: err=%v", o.Effect, o.Err)
		}
	}
}

func TestRunConfigErrors(t *testing.T) {
	src := testSource(t)

	mismatch := testConfig(src, "HALL")
	mismatch.ReconstructionTopology.CombDelaysMs = []float64{30}
	mismatch.ReconstructionTopology.CombGains = []float64{0.5}

	badTopology := testConfig(src, "HALL")
	badTopology.FitTopology.WetGain = 2

	tests := map[string]Config{
		"nil source":      testConfig(nil, "HALL"),
		"no effects":      testConfig(src),
		"comb mismatch":   mismatch,
		"fit topology":    badTopology,
		"dry unavailable": testConfig(&memSource{dryErr: library.ErrMissingAsset}, "HALL"),
	}

	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Run(context.Background(), cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunWithLibrary(t *testing.T) {
	src := testSource(t)
	dir := t.TempDir()

	reg, err := library.Registry{}.With(library.DryKey, "original.wav")
	if err != nil {
		t.Fatal(err)
	}

	reg, err = reg.With("REV-STAGE B", "07.wav")
	if err != nil {
		t.Fatal(err)
	}

	if err := wavio.Save(filepath.Join(dir, "original.wav"), src.dry); err != nil {
		t.Fatal(err)
	}

	if err := wavio.Save(filepath.Join(dir, "07.wav"), src.targets["HALL"]); err != nil {
		t.Fatal(err)
	}

	lib, err := library.New(dir, reg)
	if err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(lib, "REV-STAGE B")
	cfg.OutputDir = dir

	outcomes, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if !outcomes[0].OK() {
		t.Fatal(outcomes[0].Err)
	}

	if _, err := os.Stat(filepath.Join(dir, "reconstructed_REV-STAGE_B.wav")); err != nil {
		t.Fatalf("reconstruction not written: %v", err)
	}
}

func TestDefaultReconstructionTopology(t *testing.T) {
	engine, err := reverb.NewSchroeder(44100, DefaultReconstructionTopology())
	if err != nil {
		t.Fatal(err)
	}

	want := []int{1051, 337, 113}
	got := engine.AllpassDelays()

	if len(got) != len(want) {
		t.Fatalf("AllpassDelays()=%v want=%v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllpassDelays()=%v want=%v", got, want)
		}
	}
}

func TestOutputName(t *testing.T) {
	tests := map[string]string{
		"REV-HALL1":      "reconstructed_REV-HALL1.wav",
		"REV-STAGE B":    "reconstructed_REV-STAGE_B.wav",
		"RET-STATE GTHT": "reconstructed_RET-STATE_GTHT.wav",
	}

	for in, want := range tests {
		if got := OutputName(in); got != want {
			t.Fatalf("OutputName(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestRunMultiStart(t *testing.T) {
	cfg := testConfig(testSource(t), "HALL")
	cfg.ExtraStarts = [][]float64{{0.6, 0.6, 0.6, 0.6}, {0.7, 0.75, 0.72, 0.69}}

	outcomes, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	o := outcomes[0]
	if !o.OK() {
		t.Fatal(o.Err)
	}

	if o.Start < 0 || o.Start > 2 {
		t.Fatalf("Start=%d out of range", o.Start)
	}

	single := testConfig(testSource(t), "HALL")

	base, err := Run(context.Background(), single)
	if err != nil {
		t.Fatal(err)
	}

	if o.Fit.Error > base[0].Fit.Error {
		t.Fatalf("multi-start error %g worse than single start %g", o.Fit.Error, base[0].Fit.Error)
	}
}
