package similarity

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxfit/dsp/core"
)

// Errors returned by similarity functions.
var (
	ErrEmpty          = errors.New("similarity: input is empty")
	ErrLengthMismatch = errors.New("similarity: inputs differ in length")
)

func check(reference, estimate []float64) error {
	if len(reference) == 0 {
		return ErrEmpty
	}

	if len(reference) != len(estimate) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(reference), len(estimate))
	}

	return nil
}

// Align returns a and b truncated to their common length.
func Align(a, b []float64) ([]float64, []float64) {
	n := min(len(a), len(b))
	return a[:n], b[:n]
}

// residualEnergy returns sum((reference-estimate)^2).
func residualEnergy(reference, estimate []float64) float64 {
	diff := make([]float64, len(reference))
	vecmath.ScaleBlock(diff, estimate, -1)
	vecmath.AddBlockInPlace(diff, reference)

	var e float64
	for _, d := range diff {
		e += d * d
	}

	return e
}

// MSE returns the mean squared error between reference and estimate.
func MSE(reference, estimate []float64) (float64, error) {
	if err := check(reference, estimate); err != nil {
		return 0, err
	}

	return residualEnergy(reference, estimate) / float64(len(reference)), nil
}

// SNR returns 10*log10(sum(reference^2) / sum((reference-estimate)^2)).
// A perfect estimate yields +Inf; a silent reference with any error -Inf.
func SNR(reference, estimate []float64) (float64, error) {
	if err := check(reference, estimate); err != nil {
		return 0, err
	}

	noise := residualEnergy(reference, estimate)
	if noise == 0 {
		return math.Inf(1), nil
	}

	var sig float64
	for _, v := range reference {
		sig += v * v
	}

	if sig == 0 {
		return math.Inf(-1), nil
	}

	return core.LinearPowerToDB(sig / noise), nil
}
