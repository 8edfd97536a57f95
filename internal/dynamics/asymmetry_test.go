package dynamics

import (
	"testing"
	"time"
)

func TestPhaseAdvancesForwardUnderHysteresis(t *testing.T) {
	st := New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	st = EvaluateAsymmetry(st, 4, 400, MemoryCounts{Hot: 10, Warm: 8, Cold: 20, Notes: 5}, []float64{50, 60, 40, 70}, FormSignals{Density: 90, Complexity: 90, Stability: 90, Awareness: true}, now)
	if st.Phase != Epsilon {
		t.Fatalf("expected a fully-matured entity to reach epsilon, got %s", st.Phase)
	}
	if len(st.Transitions) == 0 {
		t.Fatal("expected at least one transition to be appended")
	}

	regressed := EvaluateAsymmetry(st, 0, 0, MemoryCounts{}, nil, FormSignals{}, now.Add(time.Hour))
	if regressed.Phase != Epsilon {
		t.Fatalf("phase must never roll backward, got %s", regressed.Phase)
	}
	if len(regressed.Transitions) != len(st.Transitions) {
		t.Fatalf("a non-advancing evaluation must not append a transition")
	}
}

func TestTransitionHistoryIsAppendOnly(t *testing.T) {
	st := New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	st = EvaluateAsymmetry(st, 1, 30, MemoryCounts{Hot: 2}, nil, FormSignals{Density: 20, Complexity: 15, Stability: 25}, now)
	first := append([]Transition(nil), st.Transitions...)

	st = EvaluateAsymmetry(st, 2, 60, MemoryCounts{Hot: 5, Warm: 3}, nil, FormSignals{Density: 40, Complexity: 35, Stability: 45}, now.Add(24*time.Hour))

	for i, tr := range first {
		if st.Transitions[i] != tr {
			t.Fatalf("earlier transition record %d was mutated", i)
		}
	}
	if len(st.Transitions) <= len(first) {
		t.Fatal("expected the transition history to grow, never shrink or rewrite")
	}
}

func TestInitiativeSeededAtTenAndAdjusted(t *testing.T) {
	st := New()
	if st.Initiative != 10 {
		t.Fatalf("expected initiative seeded at 10, got %v", st.Initiative)
	}
	up := AdjustInitiative(st.Initiative, 3, 0)
	if up <= st.Initiative {
		t.Fatal("proactive messages should raise initiative balance")
	}
	down := AdjustInitiative(st.Initiative, 0, 2)
	if down >= st.Initiative {
		t.Fatal("new reversals should lower initiative balance")
	}
}
