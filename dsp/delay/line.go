package delay

import (
	"fmt"

	"github.com/cwbudde/algo-fxfit/dsp/core"
)

// Line is a fixed-capacity circular delay line with read-before-write
// semantics: Read returns the sample written Len() writes ago, then Write
// overwrites that slot and advances the write position.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a zeroed delay line holding size samples.
func New(size int) (*Line, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: delay size must be >= 1: %d", core.ErrInvalidConfig, size)
	}

	return &Line{buffer: make([]float64, size)}, nil
}

// NewMilliseconds returns a delay line whose capacity is
// round(ms / 1000 * sampleRate) samples.
func NewMilliseconds(ms, sampleRate float64) (*Line, error) {
	size, err := core.MillisecondsToSamples(ms, sampleRate)
	if err != nil {
		return nil, err
	}

	return New(size)
}

// Len returns the capacity in samples.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Read returns the oldest sample, the one at the write position.
func (d *Line) Read() float64 {
	return d.buffer[d.writePos]
}

// Write stores sample at the write position and advances it.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample

	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}

	d.writePos = 0
}
