package core

import (
	"fmt"
	"math"
)

// MillisecondsToSamples converts a delay time to the nearest whole number of
// samples: round(ms / 1000 * sampleRate). It rejects results below one sample.
func MillisecondsToSamples(ms, sampleRate float64) (int, error) {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return 0, fmt.Errorf("%w: sample rate must be > 0 and finite: %f", ErrInvalidConfig, sampleRate)
	}

	if !IsFinite(ms) {
		return 0, fmt.Errorf("%w: delay must be finite: %f", ErrInvalidConfig, ms)
	}

	n := int(math.Round(ms / 1000 * sampleRate))
	if n < 1 {
		return 0, fmt.Errorf("%w: delay of %g ms at %g Hz is %d samples, need >= 1",
			ErrInvalidConfig, ms, sampleRate, n)
	}

	return n, nil
}

// TruncMillisecondsToSamples converts a time in milliseconds to samples,
// truncating toward zero. Zero is a valid result.
func TruncMillisecondsToSamples(ms, sampleRate float64) int {
	return int(ms / 1000 * sampleRate)
}
