package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-fxfit/internal/testutil"
)

func TestMSE(t *testing.T) {
	got, err := MSE([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 2})
	if err != nil {
		t.Fatal(err)
	}

	if got != 1 {
		t.Fatalf("MSE = %g, want 1", got)
	}

	same, _ := MSE([]float64{0.5, -0.5}, []float64{0.5, -0.5})
	if same != 0 {
		t.Fatalf("MSE of identical inputs = %g, want 0", same)
	}
}

func TestMSEMatchesDirectSum(t *testing.T) {
	a := testutil.DeterministicNoise(1, 1, 1001)
	b := testutil.DeterministicNoise(2, 1, 1001)

	var want float64
	for i := range a {
		d := a[i] - b[i]
		want += d * d
	}

	want /= float64(len(a))

	got, err := MSE(a, b)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("MSE = %.15g, want %.15g", got, want)
	}
}

func TestSNR(t *testing.T) {
	ref := []float64{1, -1, 1, -1}
	est := []float64{0.9, -0.9, 0.9, -0.9}

	got, err := SNR(ref, est)
	if err != nil {
		t.Fatal(err)
	}

	// 4 / (4*0.01) = 100 -> 20 dB
	if math.Abs(got-20) > 1e-9 {
		t.Fatalf("SNR = %g, want 20", got)
	}

	if perfect, _ := SNR(ref, ref); !math.IsInf(perfect, 1) {
		t.Fatalf("SNR of perfect estimate = %g, want +Inf", perfect)
	}

	if silent, _ := SNR([]float64{0, 0}, []float64{1, 0}); !math.IsInf(silent, -1) {
		t.Fatalf("SNR of silent reference = %g, want -Inf", silent)
	}
}

func TestErrors(t *testing.T) {
	if _, err := MSE(nil, nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("MSE(nil) error = %v, want ErrEmpty", err)
	}

	if _, err := SNR([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("SNR mismatch error = %v, want ErrLengthMismatch", err)
	}

	if _, err := LogSpectralDistance([]float64{1, 2}, []float64{1}, 0); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("LSD mismatch error = %v, want ErrLengthMismatch", err)
	}

	if _, err := LogSpectralDistance([]float64{1, 2}, []float64{1, 2}, 100); err == nil {
		t.Error("expected error for non power-of-two fft size")
	}
}

func TestAlign(t *testing.T) {
	a, b := Align([]float64{1, 2, 3}, []float64{4, 5})
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("Align lengths = %d, %d, want 2, 2", len(a), len(b))
	}
}

func TestLogSpectralDistanceIdentical(t *testing.T) {
	x := testutil.DeterministicNoise(3, 0.5, 5000)

	got, err := LogSpectralDistance(x, x, 512)
	if err != nil {
		t.Fatal(err)
	}

	if got != 0 {
		t.Fatalf("distance of identical signals = %g, want 0", got)
	}
}

func TestLogSpectralDistanceGain(t *testing.T) {
	x := testutil.DeterministicNoise(4, 0.5, 4096)

	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 0.5 * v
	}

	got, err := LogSpectralDistance(x, y, 1024)
	if err != nil {
		t.Fatal(err)
	}

	// Halving the amplitude lowers every bin by 20*log10(2) dB.
	want := 20 * math.Log10(2)
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("distance = %g, want %g", got, want)
	}
}

func TestLogSpectralDistanceOrdersErrors(t *testing.T) {
	x := testutil.DeterministicSine(440, 8000, 0.5, 8192)
	noise := testutil.DeterministicNoise(5, 1, len(x))

	near := make([]float64, len(x))
	far := make([]float64, len(x))

	for i := range x {
		near[i] = x[i] + 0.001*noise[i]
		far[i] = x[i] + 0.1*noise[i]
	}

	dNear, err := LogSpectralDistance(x, near, 1024)
	if err != nil {
		t.Fatal(err)
	}

	dFar, err := LogSpectralDistance(x, far, 1024)
	if err != nil {
		t.Fatal(err)
	}

	if !(dNear < dFar) {
		t.Fatalf("near distance %g should be below far distance %g", dNear, dFar)
	}
}
