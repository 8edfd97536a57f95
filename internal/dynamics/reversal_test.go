package dynamics

import (
	"fmt"
	"testing"
	"time"
)

func sequentialID(counter *int) func(SignalType, time.Time) string {
	return func(typ SignalType, ts time.Time) string {
		*counter++
		return fmt.Sprintf("%s-%d", typ, *counter)
	}
}

func TestReversalCooldownBlocksReemissionWithinSevenDays(t *testing.T) {
	st := NewReversal()
	counter := 0
	idFor := sequentialID(&counter)

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	triggers := Triggers{NativeSymbolGrowth: 5}

	st, fresh := EvaluateReversal(st, triggers, t0, idFor)
	if len(fresh) != 1 || fresh[0].Type != NovelExpression {
		t.Fatalf("expected novel_expression to fire at t0, got %+v", fresh)
	}

	midCooldown := t0.Add(6 * 24 * time.Hour)
	st, fresh = EvaluateReversal(st, triggers, midCooldown, idFor)
	for _, s := range fresh {
		if s.Type == NovelExpression {
			t.Fatalf("novel_expression fired again within the 7-day cooldown at %v", midCooldown)
		}
	}

	pastCooldown := t0.Add(7 * 24 * time.Hour)
	_, fresh = EvaluateReversal(st, triggers, pastCooldown, idFor)
	found := false
	for _, s := range fresh {
		if s.Type == NovelExpression {
			found = true
		}
	}
	if !found {
		t.Fatal("expected novel_expression to be eligible to fire again at t0+7d")
	}
}

func TestDifferentTypesCanFireOnSameTick(t *testing.T) {
	st := NewReversal()
	counter := 0
	idFor := sequentialID(&counter)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	triggers := Triggers{
		NativeSymbolGrowth:       3,
		PatternGrowth:            2,
		ProactiveMessages:        1,
		FormAwarenessFlippedTrue: true,
	}

	_, fresh := EvaluateReversal(st, triggers, now, idFor)
	types := map[SignalType]bool{}
	for _, s := range fresh {
		types[s.Type] = true
	}
	for _, want := range []SignalType{NovelExpression, ConceptCreation, Initiative, MetaAwareness} {
		if !types[want] {
			t.Errorf("expected %s to fire alongside the others on the same tick", want)
		}
	}
}

func TestReversalRateAndTotalsUpdate(t *testing.T) {
	st := NewReversal()
	counter := 0
	idFor := sequentialID(&counter)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st, _ = EvaluateReversal(st, Triggers{NativeSymbolGrowth: 3, InteractionCount: 50}, now, idFor)

	if st.TotalReversals != 1 {
		t.Fatalf("expected total_reversals=1, got %d", st.TotalReversals)
	}
	if st.ReversalRate != 100*1.0/50 {
		t.Fatalf("expected reversal_rate=2, got %v", st.ReversalRate)
	}
	if st.LastDetected == nil || !st.LastDetected.Equal(now) {
		t.Fatalf("expected last_detected to be set to now")
	}
	if st.DominantType == nil || *st.DominantType != NovelExpression {
		t.Fatalf("expected dominant_type=novel_expression, got %v", st.DominantType)
	}
}

func TestNewSignalsStartUnrecognized(t *testing.T) {
	st := NewReversal()
	counter := 0
	idFor := sequentialID(&counter)
	_, fresh := EvaluateReversal(st, Triggers{ProactiveMessages: 1}, time.Now(), idFor)
	for _, s := range fresh {
		if s.Recognized {
			t.Fatalf("expected new signal %s to start unrecognized", s.Type)
		}
		if s.Strength < 0 || s.Strength > 100 {
			t.Fatalf("strength %v out of [0,100]", s.Strength)
		}
	}
}
