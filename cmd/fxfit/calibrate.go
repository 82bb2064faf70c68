package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-fxfit/calibrate"
	"github.com/cwbudde/algo-fxfit/internal/driver"
)

type calibrateFlags struct {
	effects   []string
	workers   int
	excerpt   float64
	maxEvals  int
	starts    []float64
	clipGuard bool
	noSave    bool
}

func newCalibrateCmd(a *app) *cobra.Command {
	f := &calibrateFlags{}

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Fit reverb comb gains to the unit's recordings",
		Long: `Fit the four comb gains of the Schroeder model to each requested
preset, render a full-length reconstruction with a three-stage diffuser and
report how close it is to the recording.

Examples:
  fxfit calibrate
  fxfit calibrate --effects REV-HALL2,REV-ROOM1 --starts 0.6,0.9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalibrate(cmd, a, f)
		},
	}

	cmd.Flags().StringSliceVar(&f.effects, "effects", driver.DefaultEffects, "Presets to calibrate")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Presets processed at once (0 = GOMAXPROCS)")
	cmd.Flags().Float64Var(&f.excerpt, "excerpt", calibrate.DefaultExcerptSeconds, "Seconds of audio the search compares")
	cmd.Flags().IntVar(&f.maxEvals, "max-evals", 0, "Objective evaluation budget per start (0 = default)")
	cmd.Flags().Float64SliceVar(&f.starts, "starts", nil, "Extra uniform initial gains to search from")
	cmd.Flags().BoolVar(&f.clipGuard, "clip-guard", false, "Rescale reconstructions whose peak exceeds full scale")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "Do not write reconstructions")

	return cmd
}

func runCalibrate(cmd *cobra.Command, a *app, f *calibrateFlags) error {
	lib, err := a.library()
	if err != nil {
		return err
	}

	cfg := driver.DefaultConfig(lib)
	cfg.Effects = f.effects
	cfg.ClipGuard = f.clipGuard
	cfg.Logger = a.logger

	if f.workers > 0 {
		cfg.Workers = f.workers
	}

	if !f.noSave {
		cfg.OutputDir = a.outputDir
	}

	cfg.FitOptions = []calibrate.Option{
		calibrate.WithExcerptSeconds(f.excerpt),
		calibrate.WithLogger(a.logger),
	}

	if f.maxEvals > 0 {
		cfg.FitOptions = append(cfg.FitOptions, calibrate.WithMaxEvaluations(f.maxEvals))
	}

	for _, g := range f.starts {
		start := make([]float64, len(cfg.InitialGains))
		for i := range start {
			start[i] = g
		}

		cfg.ExtraStarts = append(cfg.ExtraStarts, start)
	}

	outcomes, err := driver.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if err := printOutcomes(cmd.OutOrStdout(), outcomes); err != nil {
		return err
	}

	s := driver.Summarize(outcomes)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d presets reconstructed", s.Succeeded, s.Total)

	if s.BestEffect != "" {
		fmt.Fprintf(cmd.OutOrStdout(), ", best %s at %.2f dB SNR", s.BestEffect, s.BestSNR)
	}

	fmt.Fprintln(cmd.OutOrStdout())

	if s.Failed > 0 {
		return fmt.Errorf("%d presets failed", s.Failed)
	}

	return nil
}

func printOutcomes(w io.Writer, outcomes []driver.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EFFECT\tGAINS\tMSE\tSNR dB\tLSD dB\tRT60 s\tOUTPUT")

	for _, o := range outcomes {
		if !o.OK() {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t%v\n", o.Effect, o.Err)
			continue
		}

		fmt.Fprintf(tw, "%s\t%.3f\t%.3g\t%.2f\t%.2f\t%.2f\t%s\n",
			o.Effect, o.Fit.Gains, o.Metrics.MSE, o.Metrics.SNR,
			o.Metrics.SpectralDistance, o.Metrics.Decay.RT60, o.OutputPath)
	}

	return tw.Flush()
}
