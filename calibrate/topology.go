package calibrate

import "github.com/cwbudde/algo-fxfit/dsp/effects/reverb"

// Default search parameters.
const (
	DefaultExcerptSeconds = 2.0
	DefaultInitialGain    = 0.8

	// Penalty is returned by the objective for gains outside (0, MaxGain).
	Penalty = 1e9
	// MaxGain is the exclusive upper bound of a feasible comb gain.
	MaxGain = 0.99
)

// DefaultTopology returns the fixed Schroeder topology the unit is calibrated
// with: four combs and two 0.7 all-passes at 10% wet. Comb gains are set to
// the default initial guess.
func DefaultTopology() reverb.Topology {
	return reverb.Topology{
		CombDelaysMs:    []float64{29.7, 37.1, 41.1, 43.7},
		CombGains:       DefaultInitialGains(4),
		AllpassDelaysMs: []float64{5.0, 1.7},
		AllpassGains:    []float64{0.7, 0.7},
		WetGain:         0.1,
	}
}

// DefaultInitialGains returns n copies of DefaultInitialGain.
func DefaultInitialGains(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = DefaultInitialGain
	}

	return out
}
