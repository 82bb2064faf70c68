package driver

import (
	"errors"
	"math"
)

// Summary aggregates a set of outcomes.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	// FailedByStage counts failures per stage. Errors that are not an
	// *EffectError are not counted here.
	FailedByStage map[Stage]int
	// BestEffect is the succeeded effect with the highest SNR, empty when
	// none succeeded.
	BestEffect string
	BestSNR    float64
}

// Summarize counts successes and failures and picks the best reconstruction.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{
		Total:         len(outcomes),
		FailedByStage: make(map[Stage]int),
		BestSNR:       math.Inf(-1),
	}

	for _, o := range outcomes {
		if !o.OK() {
			s.Failed++

			var effErr *EffectError
			if errors.As(o.Err, &effErr) {
				s.FailedByStage[effErr.Stage]++
			}

			continue
		}

		s.Succeeded++

		if s.BestEffect == "" || o.Metrics.SNR > s.BestSNR {
			s.BestEffect = o.Effect
			s.BestSNR = o.Metrics.SNR
		}
	}

	return s
}
