package calibrate

import (
	"fmt"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/effects/reverb"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
	"github.com/cwbudde/algo-fxfit/measure/similarity"
)

// Objective scores candidate comb gains by rendering the reference excerpt and
// comparing it with the target excerpt. It is safe for concurrent use: each
// evaluation builds its own engine and only reads the shared buffers.
type Objective struct {
	sampleRate float64
	topology   reverb.Topology
	reference  []float64
	target     []float64
}

// NewObjective prepares the excerpts of reference and target. The excerpt
// covers the first excerptSeconds of the shorter of the two signals.
func NewObjective(reference, target signal.Signal, topology reverb.Topology, excerptSeconds float64) (*Objective, error) {
	if err := reference.Validate(); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	if reference.SampleRate != target.SampleRate {
		return nil, fmt.Errorf("%w: reference is %d Hz but target is %d Hz",
			core.ErrInvalidConfig, reference.SampleRate, target.SampleRate)
	}

	if err := topology.Validate(); err != nil {
		return nil, err
	}

	// Delay lengths are fixed for the whole search; catch sub-sample ones now.
	if _, err := reverb.NewSchroeder(float64(reference.SampleRate), topology); err != nil {
		return nil, err
	}

	n := min(reference.Len(), target.Len(), int(excerptSeconds*float64(reference.SampleRate)))
	if n == 0 {
		return nil, fmt.Errorf("%w: empty excerpt (reference %d, target %d samples)",
			core.ErrInvalidConfig, reference.Len(), target.Len())
	}

	return &Objective{
		sampleRate: float64(reference.SampleRate),
		topology:   topology.Clone(),
		reference:  reference.Head(n).Float64(),
		target:     target.Head(n).Float64(),
	}, nil
}

// Len returns the excerpt length in samples.
func (o *Objective) Len() int { return len(o.reference) }

// Feasible reports whether every gain lies in (0, MaxGain).
func Feasible(gains []float64) bool {
	for _, g := range gains {
		if !(g > 0 && g < MaxGain) {
			return false
		}
	}

	return true
}

// Evaluate returns the mean squared error of gains, or Penalty when any gain
// is infeasible or the count does not match the topology.
func (o *Objective) Evaluate(gains []float64) float64 {
	if len(gains) != len(o.topology.CombDelaysMs) || !Feasible(gains) {
		return Penalty
	}

	engine, err := reverb.NewSchroeder(o.sampleRate, o.topology.WithCombGains(gains))
	if err != nil {
		return Penalty
	}

	buf := make([]float64, len(o.reference))
	copy(buf, o.reference)
	engine.ProcessInPlace(buf)

	mse, err := similarity.MSE(o.target, buf)
	if err != nil {
		return Penalty
	}

	return mse
}
