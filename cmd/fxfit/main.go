// Command fxfit calibrates Schroeder reverb models against recordings of a
// hardware multi-effects unit and renders the emulated effects.
//
// Usage:
//
//	fxfit [--assets dir] [--output dir] [--log-level level] <command>
//
// Examples:
//
//	fxfit verify
//	fxfit effects
//	fxfit calibrate --effects REV-HALL1,"REV-STAGE B" --workers 2
//	fxfit render --tremolo-rate 4 --tremolo-depth 0.3
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-fxfit/internal/library"
)

type app struct {
	assetsDir string
	outputDir string
	logLevel  string

	logger *logrus.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logrus.New()}

	root := &cobra.Command{
		Use:   "fxfit",
		Short: "Fit and render emulations of a hardware multi-effects unit",
		Long: `fxfit fits the comb gains of a Schroeder reverb so that the dry
reference recording, processed by the model, matches the unit's recording of
each preset. It also renders the fixed-parameter reverb, flanger and tremolo
models for listening tests.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogger(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.assetsDir, "assets", "audio_files", "Directory holding the reference recordings")
	root.PersistentFlags().StringVar(&a.outputDir, "output", "output", "Directory for rendered files")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newCalibrateCmd(a),
		newRenderCmd(a),
		newEffectsCmd(a),
		newVerifyCmd(a),
	)

	return root
}

func (a *app) setupLogger(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	a.logger.SetOutput(cmd.ErrOrStderr())
	a.logger.SetLevel(level)
	a.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return nil
}

func (a *app) library() (*library.Library, error) {
	return library.New(a.assetsDir, library.DefaultRegistry(), library.WithLogger(a.logger))
}
