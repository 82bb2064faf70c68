package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxfit/dsp/signal"
	timestats "github.com/cwbudde/algo-fxfit/stats/time"
)

// RenderInfo reports what Render did to the buffer after the reverb pass.
type RenderInfo struct {
	// Peak is the absolute peak of the reverb output before the clip guard.
	Peak float64
	// ClipGuardApplied is set when the output was rescaled.
	ClipGuardApplied bool
	// Scale is the factor applied by the clip guard, 1 when it did not run.
	Scale float64
}

// RenderOption mutates render parameters.
type RenderOption func(*renderConfig) error

type renderConfig struct {
	clipGuard bool
}

// WithClipGuard enables the post-render clip guard: when the output peak
// exceeds 1, the whole buffer is scaled by 1/peak. Disabled by default, in
// which case Render output is bit-exact.
func WithClipGuard(enabled bool) RenderOption {
	return func(cfg *renderConfig) error {
		cfg.clipGuard = enabled
		return nil
	}
}

// Render runs a fresh Schroeder engine built from topology over sig and
// returns the processed copy.
func Render(sig signal.Signal, topology Topology, opts ...RenderOption) (signal.Signal, RenderInfo, error) {
	var cfg renderConfig

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return signal.Signal{}, RenderInfo{}, err
		}
	}

	if err := sig.Validate(); err != nil {
		return signal.Signal{}, RenderInfo{}, fmt.Errorf("reverb render: %w", err)
	}

	engine, err := NewSchroeder(float64(sig.SampleRate), topology)
	if err != nil {
		return signal.Signal{}, RenderInfo{}, err
	}

	buf := sig.Float64()
	engine.ProcessInPlace(buf)

	info := RenderInfo{Peak: timestats.Peak(buf), Scale: 1}
	if cfg.clipGuard && info.Peak > 1 {
		info.Scale = 1 / info.Peak
		info.ClipGuardApplied = true
		vecmath.ScaleBlock(buf, buf, info.Scale)
	}

	return signal.FromFloat64(sig.SampleRate, buf), info, nil
}
