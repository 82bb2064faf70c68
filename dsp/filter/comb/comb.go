package comb

import (
	"fmt"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/delay"
)

// Comb is a feedback (IIR) comb filter realizing y[n] = x[n-M] + g*y[n-M].
// For a unit impulse the output is g^(k-1) at n = k*M and zero elsewhere.
type Comb struct {
	gain float64
	line *delay.Line
}

// NewComb creates a comb filter with a delay of delaySamples and feedback gain.
func NewComb(delaySamples int, gain float64) (*Comb, error) {
	if !core.IsStableGain(gain) {
		return nil, fmt.Errorf("%w: comb gain must satisfy |g| < 1: %f", core.ErrInvalidConfig, gain)
	}

	line, err := delay.New(delaySamples)
	if err != nil {
		return nil, fmt.Errorf("comb: %w", err)
	}

	return &Comb{gain: gain, line: line}, nil
}

// ProcessSample processes one sample.
func (c *Comb) ProcessSample(x float64) float64 {
	delayed := c.line.Read()
	c.line.Write(x + c.gain*delayed)

	return delayed
}

// ProcessInPlace filters buf in place.
func (c *Comb) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// Reset clears the delay line.
func (c *Comb) Reset() {
	c.line.Reset()
}

// Gain returns the feedback gain.
func (c *Comb) Gain() float64 { return c.gain }

// Delay returns the delay length in samples.
func (c *Comb) Delay() int { return c.line.Len() }
