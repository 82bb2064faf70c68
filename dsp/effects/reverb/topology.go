package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/filter/comb"
)

// Topology describes a Schroeder reverb: one comb per (CombDelaysMs[i],
// CombGains[i]) summed in parallel, one all-pass per (AllpassDelaysMs[i],
// AllpassGains[i]) chained in series, mixed as (1-WetGain)*dry + WetGain*wet.
//
// When AverageCombs is set the comb sum is divided by the number of combs
// before diffusion. The default leaves the sum unscaled.
type Topology struct {
	CombDelaysMs    []float64
	CombGains       []float64
	AllpassDelaysMs []float64
	AllpassGains    []float64
	WetGain         float64
	AverageCombs    bool
	AllpassForm     comb.AllpassForm
}

// Validate checks stage counts, gain stability and the wet gain range.
// Delay lengths are checked against the sample rate at construction.
func (t Topology) Validate() error {
	if len(t.CombDelaysMs) == 0 {
		return fmt.Errorf("%w: reverb needs at least one comb filter", core.ErrInvalidConfig)
	}

	if len(t.CombDelaysMs) != len(t.CombGains) {
		return fmt.Errorf("%w: %d comb delays but %d comb gains",
			core.ErrInvalidConfig, len(t.CombDelaysMs), len(t.CombGains))
	}

	if len(t.AllpassDelaysMs) != len(t.AllpassGains) {
		return fmt.Errorf("%w: %d all-pass delays but %d all-pass gains",
			core.ErrInvalidConfig, len(t.AllpassDelaysMs), len(t.AllpassGains))
	}

	for i, g := range t.CombGains {
		if !core.IsStableGain(g) {
			return fmt.Errorf("%w: comb %d gain must satisfy |g| < 1: %f", core.ErrInvalidConfig, i, g)
		}
	}

	for i, g := range t.AllpassGains {
		if !core.IsStableGain(g) {
			return fmt.Errorf("%w: all-pass %d gain must satisfy |g| < 1: %f", core.ErrInvalidConfig, i, g)
		}
	}

	if !core.IsFinite(t.WetGain) || t.WetGain < 0 || t.WetGain > 1 {
		return fmt.Errorf("%w: wet gain must be in [0, 1]: %f", core.ErrInvalidConfig, t.WetGain)
	}

	return nil
}

// WithCombGains returns a copy of t using gains as comb gains. The receiver
// is not modified.
func (t Topology) WithCombGains(gains []float64) Topology {
	out := t.Clone()
	out.CombGains = append([]float64(nil), gains...)

	return out
}

// Clone returns a deep copy of t.
func (t Topology) Clone() Topology {
	return Topology{
		CombDelaysMs:    append([]float64(nil), t.CombDelaysMs...),
		CombGains:       append([]float64(nil), t.CombGains...),
		AllpassDelaysMs: append([]float64(nil), t.AllpassDelaysMs...),
		AllpassGains:    append([]float64(nil), t.AllpassGains...),
		WetGain:         t.WetGain,
		AverageCombs:    t.AverageCombs,
		AllpassForm:     t.AllpassForm,
	}
}
