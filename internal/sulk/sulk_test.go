package sulk

import (
	"testing"
	"time"

	"github.com/yadori/yadori/internal/seed"
	"github.com/yadori/yadori/internal/status"
)

func TestRecoveryLawComfortAbove40(t *testing.T) {
	now := time.Now()
	st := State{IsSulking: true, Severity: Mild, SulkingSince: &now}

	for i := 0; i < 3; i++ {
		st = ProcessInteraction(st, 45)
	}

	if st.Severity != None || st.IsSulking {
		t.Fatalf("expected severity=none, is_sulking=false after 3 recoveries at comfort>=40, got severity=%s is_sulking=%v", st.Severity, st.IsSulking)
	}
	if st.SulkingSince != nil {
		t.Fatalf("expected sulking_since cleared, got %v", st.SulkingSince)
	}
}

func TestRecoveryLawComfortBelow40(t *testing.T) {
	now := time.Now()
	st := State{IsSulking: true, Severity: Mild, SulkingSince: &now}

	for i := 0; i < 3; i++ {
		st = ProcessInteraction(st, 30)
	}

	if !st.IsSulking {
		t.Fatalf("expected is_sulking to remain true when comfort stays below 40")
	}
}

func TestInvariantSulkingImpliesSeverityAndTimestamp(t *testing.T) {
	st := New()
	if st.IsSulking || st.Severity != None || st.SulkingSince != nil {
		t.Fatalf("fresh state must not be sulking")
	}
}

func TestHeartbeatOnsetByLowComfortAndMood(t *testing.T) {
	s := status.Status{Comfort: 10, Mood: 15, Energy: 50, Curiosity: 50}
	st := EvaluateHeartbeat(New(), s, seed.CalmObservant, 5, 720, time.Now())
	if !st.IsSulking {
		t.Fatalf("expected sulk onset when comfort<20 and mood<30")
	}
	if ActiveSoulFile(st) != "SOUL_EVIL.md" {
		t.Fatalf("expected SOUL_EVIL.md while sulking, got %s", ActiveSoulFile(st))
	}
}

func TestHeartbeatOnsetBySilence(t *testing.T) {
	s := status.Status{Comfort: 35, Mood: 60, Energy: 50, Curiosity: 50}
	st := EvaluateHeartbeat(New(), s, seed.BoldImpulsive, 800, 720, time.Now())
	if !st.IsSulking {
		t.Fatalf("expected sulk onset from long silence with low comfort")
	}
}

func TestNoOnsetWhenHealthy(t *testing.T) {
	s := status.New()
	st := EvaluateHeartbeat(New(), s, seed.BoldImpulsive, 10, 720, time.Now())
	if st.IsSulking {
		t.Fatalf("did not expect sulk onset for a healthy status")
	}
	if ActiveSoulFile(st) != "SOUL.md" {
		t.Fatalf("expected SOUL.md when not sulking, got %s", ActiveSoulFile(st))
	}
}

func TestProactiveSuppressedOnlyAtSevere(t *testing.T) {
	st := State{IsSulking: true, Severity: Moderate}
	if ProactiveSuppressed(st) {
		t.Fatalf("moderate severity must not suppress proactive signals")
	}
	st.Severity = Severe
	if !ProactiveSuppressed(st) {
		t.Fatalf("severe severity must suppress proactive signals")
	}
}
