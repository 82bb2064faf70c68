package driver

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxfit/calibrate"
	"github.com/cwbudde/algo-fxfit/dsp/effects/reverb"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
)

// DefaultEffects are the reverb presets calibrated when none are requested.
var DefaultEffects = []string{"REV-HALL1", "REV-ROOM2", "REV-STAGE B"}

// DefaultMaxImpulseSeconds caps the impulse response rendered for RT60.
const DefaultMaxImpulseSeconds = 5.0

// Source supplies the dry reference and the recorded effect targets.
// *library.Library satisfies it.
type Source interface {
	Dry() (signal.Signal, error)
	Target(name string) (signal.Signal, error)
}

// Config controls a calibration run.
type Config struct {
	Source  Source
	Effects []string

	// OutputDir receives reconstructed_<NAME>.wav per effect. Empty skips
	// saving.
	OutputDir string

	// FitTopology supplies the delays and all-passes searched over.
	FitTopology  reverb.Topology
	InitialGains []float64
	// ExtraStarts are further initial guesses searched alongside
	// InitialGains; the lowest-error fit wins.
	ExtraStarts [][]float64
	FitOptions  []calibrate.Option

	// ReconstructionTopology renders the full-length result with the fitted
	// comb gains. It must have as many combs as FitTopology.
	ReconstructionTopology reverb.Topology
	ClipGuard              bool

	// FFTSize is the frame length of the spectral distance, 0 for the default.
	FFTSize           int
	MaxImpulseSeconds float64

	// Workers bounds the number of effects processed at once.
	Workers int
	Logger  logrus.FieldLogger
}

// DefaultReconstructionTopology is the fit topology with a denser three-stage
// all-pass diffuser of 1051, 337 and 113 samples at 44.1 kHz.
func DefaultReconstructionTopology() reverb.Topology {
	t := calibrate.DefaultTopology()
	t.AllpassDelaysMs = []float64{23.832, 7.642, 2.562}
	t.AllpassGains = []float64{0.7, 0.7, 0.7}

	return t
}

// DefaultConfig returns a configuration for src with the unit's default
// presets and topologies.
func DefaultConfig(src Source) Config {
	return Config{
		Source:                 src,
		Effects:                append([]string(nil), DefaultEffects...),
		FitTopology:            calibrate.DefaultTopology(),
		InitialGains:           calibrate.DefaultInitialGains(4),
		ReconstructionTopology: DefaultReconstructionTopology(),
		MaxImpulseSeconds:      DefaultMaxImpulseSeconds,
		Workers:                runtime.GOMAXPROCS(0),
	}
}

func (c *Config) validate() error {
	if c.Source == nil {
		return errors.New("driver: nil source")
	}

	if len(c.Effects) == 0 {
		return errors.New("driver: no effects requested")
	}

	if err := c.FitTopology.Validate(); err != nil {
		return fmt.Errorf("driver: fit topology: %w", err)
	}

	if err := c.ReconstructionTopology.Validate(); err != nil {
		return fmt.Errorf("driver: reconstruction topology: %w", err)
	}

	if len(c.ReconstructionTopology.CombDelaysMs) != len(c.FitTopology.CombDelaysMs) {
		return fmt.Errorf("driver: reconstruction has %d combs, fit topology %d",
			len(c.ReconstructionTopology.CombDelaysMs), len(c.FitTopology.CombDelaysMs))
	}

	if c.Workers < 1 {
		c.Workers = 1
	}

	if c.MaxImpulseSeconds <= 0 {
		c.MaxImpulseSeconds = DefaultMaxImpulseSeconds
	}

	if c.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		c.Logger = discard
	}

	return nil
}
