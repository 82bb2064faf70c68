package calibrate

import (
	"math"
	"testing"
)

func TestObjectivePenalizesInfeasibleGains(t *testing.T) {
	ref, target := syntheticPair(t, 0.1)

	obj, err := NewObjective(ref, target, DefaultTopology(), DefaultExcerptSeconds)
	if err != nil {
		t.Fatal(err)
	}

	for _, gains := range [][]float64{
		{0, 0.7, 0.7, 0.7},
		{0.7, -0.1, 0.7, 0.7},
		{0.7, 0.7, 0.99, 0.7},
		{0.7, 0.7, 0.7, 1.5},
		{0.7, 0.7, 0.7, math.NaN()},
		{0.7, 0.7},
	} {
		if got := obj.Evaluate(gains); got != Penalty {
			t.Errorf("Evaluate(%v) = %g, want penalty", gains, got)
		}
	}

	if got := obj.Evaluate([]float64{0.98, 0.01, 0.5, 0.5}); got >= Penalty {
		t.Errorf("feasible gains scored %g", got)
	}
}

func TestObjectiveIsZeroAtTruth(t *testing.T) {
	ref, target := syntheticPair(t, 0.2)

	obj, err := NewObjective(ref, target, DefaultTopology(), DefaultExcerptSeconds)
	if err != nil {
		t.Fatal(err)
	}

	// The target is stored as float32, so the optimum is only zero up to
	// rounding.
	if got := obj.Evaluate(trueGains); got > 1e-12 {
		t.Fatalf("Evaluate(trueGains) = %g, want ~0", got)
	}
}

func TestObjectiveExcerpt(t *testing.T) {
	ref, target := syntheticPair(t, 0.5)

	obj, err := NewObjective(ref, target, DefaultTopology(), 0.25)
	if err != nil {
		t.Fatal(err)
	}

	if obj.Len() != testSampleRate/4 {
		t.Fatalf("Len() = %d, want %d", obj.Len(), testSampleRate/4)
	}

	short, err := NewObjective(ref, target.Head(100), DefaultTopology(), DefaultExcerptSeconds)
	if err != nil {
		t.Fatal(err)
	}

	if short.Len() != 100 {
		t.Fatalf("Len() = %d, want 100 for a short target", short.Len())
	}
}

func TestDefaultTopology(t *testing.T) {
	topo := DefaultTopology()
	if err := topo.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if len(topo.CombDelaysMs) != 4 || topo.WetGain != 0.1 || topo.AverageCombs {
		t.Fatalf("unexpected topology %+v", topo)
	}
}
