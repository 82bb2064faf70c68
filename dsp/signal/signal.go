// Package signal defines the Signal buffer exchanged between effect engines and
// deterministic generators for test and reference material.
package signal

import (
	"fmt"

	"github.com/cwbudde/algo-fxfit/dsp/core"
)

// Signal is a mono sample buffer at a fixed sample rate. Samples are nominally
// in [-1, 1]; values outside are allowed until the signal is saved.
type Signal struct {
	SampleRate int
	Samples    []float32
}

// New creates a validated Signal that takes ownership of samples.
func New(sampleRate int, samples []float32) (Signal, error) {
	s := Signal{SampleRate: sampleRate, Samples: samples}
	if err := s.Validate(); err != nil {
		return Signal{}, err
	}

	return s, nil
}

// FromFloat64 narrows a processing buffer into a Signal.
func FromFloat64(sampleRate int, data []float64) Signal {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v)
	}

	return Signal{SampleRate: sampleRate, Samples: out}
}

// Validate reports a configuration error for a non-positive sample rate.
func (s Signal) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %d", core.ErrInvalidConfig, s.SampleRate)
	}

	return nil
}

// Len returns the number of samples.
func (s Signal) Len() int { return len(s.Samples) }

// Seconds returns the signal duration.
func (s Signal) Seconds() float64 {
	if s.SampleRate <= 0 {
		return 0
	}

	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Float64 returns a widened copy of the samples for processing.
func (s Signal) Float64() []float64 {
	out := make([]float64, len(s.Samples))
	for i, v := range s.Samples {
		out[i] = float64(v)
	}

	return out
}

// Head returns the first n samples, sharing storage with s.
// n is clamped to [0, Len()].
func (s Signal) Head(n int) Signal {
	n = max(0, min(n, len(s.Samples)))

	return Signal{SampleRate: s.SampleRate, Samples: s.Samples[:n]}
}

// HeadSeconds returns the first sec seconds of s, truncated to whole samples.
func (s Signal) HeadSeconds(sec float64) Signal {
	return s.Head(int(sec * float64(s.SampleRate)))
}

// Clone returns a deep copy.
func (s Signal) Clone() Signal {
	out := make([]float32, len(s.Samples))
	copy(out, s.Samples)

	return Signal{SampleRate: s.SampleRate, Samples: out}
}
