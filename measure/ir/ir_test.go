package ir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-fxfit/dsp/filter/comb"
	"github.com/cwbudde/algo-fxfit/internal/testutil"
)

// makeExponentialDecay generates a synthetic IR with known RT60.
// h(t) = exp(-6.908 * t / rt60) where 6.908 = ln(10^3) ensures -60 dB at rt60.
func makeExponentialDecay(sampleRate, rt60, durationSec float64) []float64 {
	ir := make([]float64, int(sampleRate*durationSec))
	decayRate := 6.9078 / rt60

	for i := range ir {
		ir[i] = math.Exp(-decayRate * float64(i) / sampleRate)
	}

	return ir
}

func TestAnalyzeExponentialDecay(t *testing.T) {
	const (
		sampleRate = 48000.0
		rt60       = 1.0
	)

	d, err := NewAnalyzer(sampleRate).Analyze(makeExponentialDecay(sampleRate, rt60, 3))
	if err != nil {
		t.Fatal(err)
	}

	for name, got := range map[string]float64{"RT60": d.RT60, "EDT": d.EDT, "T20": d.T20, "T30": d.T30} {
		if math.Abs(got-rt60) > 0.05*rt60 {
			t.Errorf("%s = %.3f, want %.3f (±5%%)", name, got, rt60)
		}
	}

	if d.PeakIndex != 0 {
		t.Errorf("PeakIndex = %d, want 0", d.PeakIndex)
	}
}

func TestAnalyzeMeasuresFromPeak(t *testing.T) {
	const sampleRate = 8000.0

	decay := makeExponentialDecay(sampleRate, 0.5, 2)
	ir := append(make([]float64, 400), decay...)

	d, err := NewAnalyzer(sampleRate).Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}

	if d.PeakIndex != 400 {
		t.Fatalf("PeakIndex = %d, want 400", d.PeakIndex)
	}

	if math.Abs(d.RT60-0.5) > 0.025 {
		t.Fatalf("RT60 = %.3f, want 0.5", d.RT60)
	}
}

func TestCombImpulseResponseMatchesClosedForm(t *testing.T) {
	const (
		sampleRate = 10000.0
		delay      = 100
		gain       = 0.9
	)

	c, err := comb.NewComb(delay, gain)
	if err != nil {
		t.Fatal(err)
	}

	ir := testutil.Impulse(20000, 0)
	c.ProcessInPlace(ir)

	want, err := CombRT60(delay, gain, sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	got, err := NewAnalyzer(sampleRate).RT60(ir)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(got-want) > 0.1*want {
		t.Fatalf("measured RT60 = %.3f s, closed form %.3f s", got, want)
	}
}

func TestCombRT60(t *testing.T) {
	// 0.1 gain drops 20 dB per pass: three passes of 10 ms.
	got, err := CombRT60(441, 0.1, 44100)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(got-0.03) > 1e-12 {
		t.Fatalf("CombRT60 = %g, want 0.03", got)
	}

	neg, _ := CombRT60(441, -0.1, 44100)
	if neg != got {
		t.Fatalf("negative gain RT60 = %g, want %g", neg, got)
	}

	for _, g := range []float64{0, 1, 1.5, math.NaN()} {
		if _, err := CombRT60(441, g, 44100); !errors.Is(err, ErrInvalidGain) {
			t.Errorf("gain %v: error = %v, want ErrInvalidGain", g, err)
		}
	}

	if _, err := CombRT60(441, 0.5, 0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("error = %v, want ErrInvalidSampleRate", err)
	}
}

func TestSchroederIntegral(t *testing.T) {
	curve, err := SchroederIntegral([]float64{1, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}

	if curve[0] != 0 || curve[1] != -200 {
		t.Fatalf("curve = %v, want [0 -200 ...]", curve)
	}

	if _, err := SchroederIntegral(nil); !errors.Is(err, ErrEmptyIR) {
		t.Fatalf("error = %v, want ErrEmptyIR", err)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := NewAnalyzer(48000).Analyze(nil); !errors.Is(err, ErrEmptyIR) {
		t.Errorf("error = %v, want ErrEmptyIR", err)
	}

	if _, err := NewAnalyzer(0).Analyze([]float64{1}); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("error = %v, want ErrInvalidSampleRate", err)
	}

	if _, err := NewAnalyzer(48000).RT60([]float64{1, 0, 0}); !errors.Is(err, ErrNoDecay) {
		t.Errorf("error = %v, want ErrNoDecay", err)
	}
}
