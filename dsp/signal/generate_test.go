package signal

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-fxfit/dsp/core"
)

func TestNewGeneratorRejectsSampleRate(t *testing.T) {
	if _, err := NewGenerator(0); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("NewGenerator(0) error = %v, want ErrInvalidConfig", err)
	}
}

func TestSineLength(t *testing.T) {
	g, err := NewGenerator(48000)
	if err != nil {
		t.Fatal(err)
	}

	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	if s.Len() != 64 || s.SampleRate != 48000 {
		t.Fatalf("len=%d rate=%d, want 64 and 48000", s.Len(), s.SampleRate)
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1, _ := NewGenerator(8000, WithSeed(42))
	g2, _ := NewGenerator(8000, WithSeed(42))
	g3, _ := NewGenerator(8000, WithSeed(43))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	n2, _ := g2.WhiteNoise(1, 16)
	n3, _ := g3.WhiteNoise(1, 16)

	same := true

	for i := range n1.Samples {
		if n1.Samples[i] != n2.Samples[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1.Samples[i], n2.Samples[i])
		}

		if n1.Samples[i] != n3.Samples[i] {
			same = false
		}
	}

	if same {
		t.Fatal("expected different seeds to produce different noise")
	}
}

func TestGeneratorRejectsBadArguments(t *testing.T) {
	g, _ := NewGenerator(8000)

	if _, err := g.Sine(100, 1, 0); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Sine(samples=0) error = %v", err)
	}

	if _, err := g.WhiteNoise(-1, 8); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("WhiteNoise(amplitude=-1) error = %v", err)
	}

	if _, err := g.Impulse(0); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Impulse(0) error = %v", err)
	}
}

func TestImpulse(t *testing.T) {
	g, _ := NewGenerator(8000)

	s, err := g.Impulse(4)
	if err != nil {
		t.Fatal(err)
	}

	want := []float32{1, 0, 0, 0}
	for i := range want {
		if s.Samples[i] != want[i] {
			t.Fatalf("impulse[%d] = %v, want %v", i, s.Samples[i], want[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if out[1] != 0.5 || out[0] != -0.25 {
		t.Fatalf("out = %v, want peak 0.5", out)
	}

	if _, err := Normalize(nil, 1); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("empty input error = %v", err)
	}

	silent, err := Normalize([]float64{0, 0}, 1)
	if err != nil || silent[0] != 0 || silent[1] != 0 {
		t.Fatalf("silent input: out=%v err=%v", silent, err)
	}
}
