package time

import "math"

// Stats holds the level statistics reported for rendered and reference signals.
type Stats struct {
	Length      int
	DC          float64 // mean
	Peak        float64 // max |x|
	PeakDB      float64
	RMS         float64
	RMSDB       float64
	Energy      float64 // sum of squares
	CrestFactor float64 // peak / RMS (linear)
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Calculate computes all statistics in a single pass.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{PeakDB: math.Inf(-1), RMSDB: math.Inf(-1)}
	}

	var sum, sumSq, peak float64

	for _, x := range signal {
		sum += x
		sumSq += x * x

		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	nf := float64(n)
	rms := math.Sqrt(sumSq / nf)

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:      n,
		DC:          sum / nf,
		Peak:        peak,
		PeakDB:      ampTodB(peak),
		RMS:         rms,
		RMSDB:       ampTodB(rms),
		Energy:      sumSq,
		CrestFactor: crest,
	}
}

// Peak returns the maximum absolute sample value. Returns 0 for empty input.
func Peak(signal []float64) float64 {
	var peak float64

	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// Peak32 is Peak for float32 buffers.
func Peak32(signal []float32) float64 {
	var peak float64

	for _, x := range signal {
		if a := math.Abs(float64(x)); a > peak {
			peak = a
		}
	}

	return peak
}

// Energy returns the sum of squared samples.
func Energy(signal []float64) float64 {
	var e float64
	for _, x := range signal {
		e += x * x
	}

	return e
}

// RMS returns the root-mean-square level. Returns 0 for empty input.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(Energy(signal) / float64(len(signal)))
}

// DC returns the mean value. Returns 0 for empty input.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sum float64
	for _, x := range signal {
		sum += x
	}

	return sum / float64(len(signal))
}

// CrestFactor returns peak / RMS, or 0 for silent or empty input.
func CrestFactor(signal []float64) float64 {
	rms := RMS(signal)
	if rms == 0 {
		return 0
	}

	return Peak(signal) / rms
}
