package driver

import (
	"errors"
	"testing"
)

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{Effect: "A", Metrics: Metrics{SNR: 3}},
		{Effect: "B", Err: newEffectError("B", StageLoad, errors.New("gone"))},
		{Effect: "C", Metrics: Metrics{SNR: 7}},
		{Effect: "D", Err: newEffectError("D", StageFit, errors.New("bad"))},
		{Effect: "E", Err: newEffectError("E", StageFit, errors.New("bad"))},
	}

	s := Summarize(outcomes)

	if s.Total != 5 || s.Succeeded != 2 || s.Failed != 3 {
		t.Fatalf("counts: %+v", s)
	}

	if s.FailedByStage[StageLoad] != 1 || s.FailedByStage[StageFit] != 2 {
		t.Fatalf("FailedByStage=%v", s.FailedByStage)
	}

	if s.BestEffect != "C" || s.BestSNR != 7 {
		t.Fatalf("best=%q snr=%g", s.BestEffect, s.BestSNR)
	}
}

func TestSummarizeNoSuccess(t *testing.T) {
	s := Summarize([]Outcome{{Effect: "A", Err: errors.New("plain")}})

	if s.BestEffect != "" || s.Failed != 1 || len(s.FailedByStage) != 0 {
		t.Fatalf("summary=%+v", s)
	}
}

func TestEffectError(t *testing.T) {
	cause := errors.New("disk full")
	err := newEffectError("REV-HALL1", StageSave, cause)

	if got, want := err.Error(), "REV-HALL1 failed at save: disk full"; got != want {
		t.Fatalf("Error()=%q want=%q", got, want)
	}

	if !errors.Is(err, cause) {
		t.Fatal("Unwrap does not expose the cause")
	}
}
