package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/filter/comb"
)

// Schroeder is a mono reverb built from a Topology. It owns its delay lines
// and must process samples in order.
type Schroeder struct {
	sampleRate float64
	combs      []*comb.Comb
	allpasses  []*comb.Allpass
	combScale  float64
	wet        float64
	dry        float64
}

// NewSchroeder builds the combs and all-passes of topology at sampleRate.
// Millisecond delays are rounded to whole samples and must be at least one
// sample long.
func NewSchroeder(sampleRate float64, topology Topology) (*Schroeder, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("%w: reverb sample rate must be > 0: %f", core.ErrInvalidConfig, sampleRate)
	}

	if err := topology.Validate(); err != nil {
		return nil, err
	}

	r := &Schroeder{
		sampleRate: sampleRate,
		combs:      make([]*comb.Comb, len(topology.CombDelaysMs)),
		allpasses:  make([]*comb.Allpass, len(topology.AllpassDelaysMs)),
		combScale:  1,
		wet:        topology.WetGain,
		dry:        1 - topology.WetGain,
	}

	if topology.AverageCombs {
		r.combScale = 1 / float64(len(topology.CombDelaysMs))
	}

	for i, ms := range topology.CombDelaysMs {
		n, err := core.MillisecondsToSamples(ms, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("reverb comb %d: %w", i, err)
		}

		r.combs[i], err = comb.NewComb(n, topology.CombGains[i])
		if err != nil {
			return nil, fmt.Errorf("reverb comb %d: %w", i, err)
		}
	}

	for i, ms := range topology.AllpassDelaysMs {
		n, err := core.MillisecondsToSamples(ms, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("reverb all-pass %d: %w", i, err)
		}

		r.allpasses[i], err = comb.NewAllpass(n, topology.AllpassGains[i], comb.WithAllpassForm(topology.AllpassForm))
		if err != nil {
			return nil, fmt.Errorf("reverb all-pass %d: %w", i, err)
		}
	}

	return r, nil
}

// ProcessSample processes one sample.
func (r *Schroeder) ProcessSample(input float64) float64 {
	var sum float64
	for _, c := range r.combs {
		sum += c.ProcessSample(input)
	}

	diffused := sum * r.combScale
	for _, a := range r.allpasses {
		diffused = a.ProcessSample(diffused)
	}

	return r.dry*input + r.wet*diffused
}

// ProcessInPlace applies the reverb to buf in place.
func (r *Schroeder) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = r.ProcessSample(buf[i])
	}
}

// Reset clears all delay lines.
func (r *Schroeder) Reset() {
	for _, c := range r.combs {
		c.Reset()
	}

	for _, a := range r.allpasses {
		a.Reset()
	}
}

// SampleRate returns the sample rate in Hz.
func (r *Schroeder) SampleRate() float64 { return r.sampleRate }

// CombDelays returns the comb delay lengths in samples.
func (r *Schroeder) CombDelays() []int {
	out := make([]int, len(r.combs))
	for i, c := range r.combs {
		out[i] = c.Delay()
	}

	return out
}

// AllpassDelays returns the all-pass delay lengths in samples.
func (r *Schroeder) AllpassDelays() []int {
	out := make([]int, len(r.allpasses))
	for i, a := range r.allpasses {
		out[i] = a.Delay()
	}

	return out
}
