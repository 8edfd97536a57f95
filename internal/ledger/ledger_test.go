package ledger

import (
	"testing"
	"time"

	"github.com/yadori/yadori/internal/growth"
)

func setupTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndRecentEvents(t *testing.T) {
	l := setupTestLedger(t)
	now := time.Now().UTC()

	id, err := l.RecordEvent(EventSnapshot{
		Kind:       KindHeartbeat,
		OccurredAt: now,
		GrowthDay:  3,
		StateHash:  "abc123",
		Mood:       60, Energy: 55, Curiosity: 70, Comfort: 50,
		ActiveSoulFile: "SOUL.md",
	}, nil)
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a non-zero event id")
	}

	events, err := l.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].GrowthDay != 3 || events[0].ActiveSoulFile != "SOUL.md" {
		t.Fatalf("unexpected event contents: %+v", events[0])
	}
}

func TestRecordEventWithMilestonesAndReversals(t *testing.T) {
	l := setupTestLedger(t)
	now := time.Now().UTC()

	_, err := l.RecordEvent(EventSnapshot{
		Kind:       KindHeartbeat,
		OccurredAt: now,
		GrowthDay:  7,
		StateHash:  "def456",
		NewMilestones: []growth.Milestone{
			{ID: "language_level_1", Label: "reached language level 1", AchievedDay: 7, AchievedAt: now},
		},
	}, []ReversalRecord{
		{SignalID: "sig-1", SignalType: "novel_expression", Strength: 42, DetectedAt: now},
	})
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	count, err := l.MilestoneCount()
	if err != nil {
		t.Fatalf("MilestoneCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 milestone recorded, got %d", count)
	}
}

func TestRecordEventMilestoneIDUniqueness(t *testing.T) {
	l := setupTestLedger(t)
	now := time.Now().UTC()

	milestone := growth.Milestone{ID: "first_breath", Label: "drew its first breath", AchievedDay: 0, AchievedAt: now}

	for i := 0; i < 3; i++ {
		if _, err := l.RecordEvent(EventSnapshot{
			Kind:          KindHeartbeat,
			OccurredAt:    now.Add(time.Duration(i) * time.Hour),
			GrowthDay:     0,
			StateHash:     "same",
			NewMilestones: []growth.Milestone{milestone},
		}, nil); err != nil {
			t.Fatalf("RecordEvent %d: %v", i, err)
		}
	}

	count, err := l.MilestoneCount()
	if err != nil {
		t.Fatalf("MilestoneCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected milestone id to dedupe to 1 row, got %d", count)
	}
}

func TestRecentEventsOrderedMostRecentFirst(t *testing.T) {
	l := setupTestLedger(t)
	base := time.Now().UTC()

	for i := 0; i < 3; i++ {
		if _, err := l.RecordEvent(EventSnapshot{
			Kind:       KindHeartbeat,
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
			GrowthDay:  i,
			StateHash:  "h",
		}, nil); err != nil {
			t.Fatalf("RecordEvent %d: %v", i, err)
		}
	}

	events, err := l.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].GrowthDay != 2 || events[2].GrowthDay != 0 {
		t.Fatalf("expected most-recent-first ordering, got growth days %d,%d,%d", events[0].GrowthDay, events[1].GrowthDay, events[2].GrowthDay)
	}
}
