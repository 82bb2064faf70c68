package similarity

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxfit/dsp/core"
)

// DefaultFFTSize is the frame length used by LogSpectralDistance when the
// caller passes 0.
const DefaultFFTSize = 2048

// powerFloor keeps silent bins finite in the log domain (-200 dB).
const powerFloor = 1e-20

// LogSpectralDistance splits both signals into consecutive non-overlapping
// Hann-windowed frames of fftSize samples and returns the mean over frames of
//
//	sqrt( mean_k (10*log10 Pref[k] - 10*log10 Pest[k])^2 )
//
// over bins 0..fftSize/2, in dB. A trailing partial frame is zero-padded.
// fftSize must be a power of two; 0 selects DefaultFFTSize.
func LogSpectralDistance(reference, estimate []float64, fftSize int) (float64, error) {
	if err := check(reference, estimate); err != nil {
		return 0, err
	}

	if fftSize == 0 {
		fftSize = DefaultFFTSize
	}

	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return 0, fmt.Errorf("similarity: fft size must be a power of two >= 2: %d", fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("similarity: %w", err)
	}

	window := hann(fftSize)
	bins := fftSize/2 + 1

	refPower := make([]float64, bins)
	estPower := make([]float64, bins)
	scratch := newSpectrumScratch(fftSize)

	var (
		total  float64
		frames int
	)

	for start := 0; start < len(reference); start += fftSize {
		end := min(start+fftSize, len(reference))

		if err := scratch.power(plan, refPower, reference[start:end], window); err != nil {
			return 0, err
		}

		if err := scratch.power(plan, estPower, estimate[start:end], window); err != nil {
			return 0, err
		}

		var sum float64

		for k := range bins {
			d := core.LinearPowerToDB(refPower[k]+powerFloor) - core.LinearPowerToDB(estPower[k]+powerFloor)
			sum += d * d
		}

		total += math.Sqrt(sum / float64(bins))
		frames++
	}

	return total / float64(frames), nil
}

type spectrumScratch struct {
	in, out []complex128
	re, im  []float64
}

func newSpectrumScratch(n int) *spectrumScratch {
	return &spectrumScratch{
		in:  make([]complex128, n),
		out: make([]complex128, n),
		re:  make([]float64, n/2+1),
		im:  make([]float64, n/2+1),
	}
}

// power writes |FFT(frame*window)|^2 for the non-negative bins into dst.
func (s *spectrumScratch) power(plan *algofft.Plan[complex128], dst, frame, window []float64) error {
	for i := range s.in {
		v := 0.0
		if i < len(frame) {
			v = frame[i] * window[i]
		}

		s.in[i] = complex(v, 0)
	}

	if err := plan.Forward(s.out, s.in); err != nil {
		return fmt.Errorf("similarity: %w", err)
	}

	for k := range s.re {
		s.re[k] = real(s.out[k])
		s.im[k] = imag(s.out[k])
	}

	vecmath.Power(dst, s.re, s.im)

	return nil
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}
