package ir

import (
	"errors"
	"math"
)

// Errors returned by IR analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidGain       = errors.New("ir: comb gain must satisfy 0 < |g| < 1")
	ErrNoDecay           = errors.New("ir: insufficient decay for RT calculation")
)

// Decay holds decay times in seconds. A zero field means the response did not
// decay far enough to measure it.
type Decay struct {
	RT60      float64 // T30, or T20 when T30 is unavailable
	EDT       float64 // 0 to -10 dB slope
	T20       float64 // -5 to -25 dB slope
	T30       float64 // -5 to -35 dB slope
	PeakIndex int     // sample index of the absolute maximum
}

// Analyzer computes decay metrics at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an IR analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Analyze computes all decay metrics of ir, measured from its peak.
func (a *Analyzer) Analyze(ir []float64) (Decay, error) {
	if len(ir) == 0 {
		return Decay{}, ErrEmptyIR
	}

	if a.SampleRate <= 0 {
		return Decay{}, ErrInvalidSampleRate
	}

	peakIdx := findPeak(ir)
	curve := schroederIntegral(ir[peakIdx:])

	d := Decay{
		PeakIndex: peakIdx,
		EDT:       a.reverbTime(curve, 0, -10),
		T20:       a.reverbTime(curve, -5, -25),
		T30:       a.reverbTime(curve, -5, -35),
	}

	d.RT60 = d.T30
	if d.RT60 == 0 {
		d.RT60 = d.T20
	}

	return d, nil
}

// RT60 returns the reverberation time of ir measured from its peak, or
// ErrNoDecay when neither T30 nor T20 can be measured.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	d, err := a.Analyze(ir)
	if err != nil {
		return 0, err
	}

	if d.RT60 == 0 {
		return 0, ErrNoDecay
	}

	return d.RT60, nil
}

// SchroederIntegral returns the backward-integrated energy decay of ir in dB,
// normalized to 0 dB at the first sample.
//
// S(t) = 10*log10( ∫_t^∞ h²(τ) dτ / ∫_0^∞ h²(τ) dτ )
func SchroederIntegral(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	return schroederIntegral(ir), nil
}

func schroederIntegral(ir []float64) []float64 {
	result := make([]float64, len(ir))

	var cumSum float64
	for i := len(ir) - 1; i >= 0; i-- {
		cumSum += ir[i] * ir[i]
		result[i] = cumSum
	}

	total := result[0]
	if total <= 0 {
		return result
	}

	for i := range result {
		ratio := result[i] / total
		if ratio <= 0 {
			result[i] = -200 // floor
		} else {
			result[i] = 10 * math.Log10(ratio)
		}
	}

	return result
}

// reverbTime fits a line to the curve between startDB and endDB and
// extrapolates it to -60 dB.
func (a *Analyzer) reverbTime(curve []float64, startDB, endDB float64) float64 {
	startIdx, endIdx := -1, -1

	for i, v := range curve {
		if startIdx < 0 && v <= startDB {
			startIdx = i
		}

		if startIdx >= 0 && v <= endDB {
			endIdx = i
			break
		}
	}

	if startIdx < 0 || endIdx <= startIdx {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64

	n := float64(endIdx - startIdx + 1)

	for i := startIdx; i <= endIdx; i++ {
		x := float64(i - startIdx)
		y := curve[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	// dB per sample
	slope := (n*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}

	return -60 / (slope * a.SampleRate)
}

func findPeak(ir []float64) int {
	peakIdx := 0
	peakVal := 0.0

	for i, v := range ir {
		if av := math.Abs(v); av > peakVal {
			peakVal = av
			peakIdx = i
		}
	}

	return peakIdx
}

// CombRT60 returns the time in seconds for the impulse response of a feedback
// comb with the given delay and gain to fall by 60 dB:
//
//	RT60 = -3 * delaySamples / (sampleRate * log10|g|)
func CombRT60(delaySamples int, gain, sampleRate float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	g := math.Abs(gain)
	if !(g > 0 && g < 1) {
		return 0, ErrInvalidGain
	}

	return -3 * float64(delaySamples) / (sampleRate * math.Log10(g)), nil
}
