package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxfit/dsp/core"
)

const twoPi = 2 * math.Pi

// LFO is a sine phase accumulator. The increment is fixed at construction and
// the phase stays in [0, 2π).
type LFO struct {
	phase     float64
	increment float64
}

// NewLFO creates an oscillator at rateHz for the given sample rate, starting
// at phase 0.
func NewLFO(rateHz, sampleRate float64) (LFO, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return LFO{}, fmt.Errorf("%w: lfo sample rate must be > 0 and finite: %f", core.ErrInvalidConfig, sampleRate)
	}

	if rateHz < 0 || !core.IsFinite(rateHz) {
		return LFO{}, fmt.Errorf("%w: lfo rate must be >= 0 and finite: %f", core.ErrInvalidConfig, rateHz)
	}

	return LFO{increment: twoPi * rateHz / sampleRate}, nil
}

// Phase returns the current phase in radians.
func (l *LFO) Phase() float64 { return l.phase }

// Increment returns the per-sample phase step in radians.
func (l *LFO) Increment() float64 { return l.increment }

// Unipolar returns 0.5*(1+sin(phase)), which lies in [0, 1].
func (l *LFO) Unipolar() float64 {
	return 0.5 * (1 + math.Sin(l.phase))
}

// Advance steps the phase by one sample.
func (l *LFO) Advance() {
	l.phase += l.increment
	if l.phase >= twoPi {
		l.phase -= twoPi
	}

	if l.phase >= twoPi {
		l.phase = math.Mod(l.phase, twoPi)
	}
}

// Reset returns the phase to 0.
func (l *LFO) Reset() { l.phase = 0 }
