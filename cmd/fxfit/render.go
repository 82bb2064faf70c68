package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-fxfit/dsp/effects/modulation"
	"github.com/cwbudde/algo-fxfit/dsp/effects/reverb"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
	"github.com/cwbudde/algo-fxfit/internal/wavio"
)

type renderFlags struct {
	input string

	reverb    bool
	clipGuard bool

	flanger      bool
	flangerRate  float64
	flangerDepth float64
	flangerBase  float64

	tremolo      bool
	tremoloRate  float64
	tremoloDepth float64
}

// listeningTopology is the hand-tuned full-wet reverb used for listening tests.
func listeningTopology() reverb.Topology {
	return reverb.Topology{
		CombDelaysMs:    []float64{29.7, 37.1, 41.1, 43.7},
		CombGains:       []float64{0.77, 0.75, 0.73, 0.71},
		AllpassDelaysMs: []float64{5.0, 1.7},
		AllpassGains:    []float64{0.7, 0.7},
		WetGain:         1,
	}
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the fixed reverb, flanger and tremolo models",
		Long: `Render the dry reference through the fixed-parameter models and write
reverb_test.wav, flanger_test.wav and tremolo_test.wav to the output directory.

Examples:
  fxfit render
  fxfit render --input guitar.wav --tremolo=false --flanger-depth 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, a, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "WAV file to process instead of the dry reference")
	fl.BoolVar(&f.reverb, "reverb", true, "Render the reverb")
	fl.BoolVar(&f.clipGuard, "clip-guard", true, "Rescale the reverb output when it exceeds full scale")
	fl.BoolVar(&f.flanger, "flanger", true, "Render the flanger")
	fl.Float64Var(&f.flangerRate, "flanger-rate", 0.5, "Flanger LFO rate in Hz")
	fl.Float64Var(&f.flangerDepth, "flanger-depth", 2, "Flanger sweep depth in ms")
	fl.Float64Var(&f.flangerBase, "flanger-base", 1, "Flanger base delay in ms")
	fl.BoolVar(&f.tremolo, "tremolo", true, "Render the tremolo")
	fl.Float64Var(&f.tremoloRate, "tremolo-rate", 5, "Tremolo modulation frequency in Hz")
	fl.Float64Var(&f.tremoloDepth, "tremolo-depth", 0.5, "Tremolo depth")

	return cmd
}

func runRender(cmd *cobra.Command, a *app, f *renderFlags) error {
	dry, err := a.loadInput(f.input)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return err
	}

	type job struct {
		enabled bool
		file    string
		render  func() (signal.Signal, error)
	}

	jobs := []job{
		{f.reverb, "reverb_test.wav", func() (signal.Signal, error) {
			out, info, err := reverb.Render(dry, listeningTopology(), reverb.WithClipGuard(f.clipGuard))
			if info.ClipGuardApplied {
				a.logger.WithFields(logrus.Fields{
					"peak":  info.Peak,
					"scale": info.Scale,
				}).Warn("reverb output rescaled")
			}

			return out, err
		}},
		{f.flanger, "flanger_test.wav", func() (signal.Signal, error) {
			return modulation.RenderFlanger(dry, f.flangerRate, f.flangerDepth, f.flangerBase)
		}},
		{f.tremolo, "tremolo_test.wav", func() (signal.Signal, error) {
			return modulation.RenderTremolo(dry, f.tremoloRate, f.tremoloDepth)
		}},
	}

	for _, j := range jobs {
		if !j.enabled {
			continue
		}

		out, err := j.render()
		if err != nil {
			return fmt.Errorf("%s: %w", j.file, err)
		}

		path := filepath.Join(a.outputDir, j.file)
		if err := wavio.Save(path, out); err != nil {
			return err
		}

		a.logger.WithField("path", path).Info("rendered")
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}

	return nil
}

func (a *app) loadInput(path string) (signal.Signal, error) {
	if path != "" {
		return wavio.Load(path)
	}

	lib, err := a.library()
	if err != nil {
		return signal.Signal{}, err
	}

	return lib.Dry()
}
