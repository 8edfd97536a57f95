package memory

import (
	"testing"
	"time"
)

// testHotCapacity and testWarmCapacity mirror the spec §3 reference
// values (HOT_CAPACITY=10, WARM_CAPACITY=8); config.Default() carries
// the same numbers for production callers.
const (
	testHotCapacity  = 10
	testWarmCapacity = 8
)

func TestAddHotOverflowsOldestAtCapacity(t *testing.T) {
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var overflow *Entry
	for i := 0; i < testHotCapacity; i++ {
		s, overflow, _ = AddHot(s, Entry{Timestamp: base.Add(time.Duration(i) * time.Hour), Summary: "e", Mood: 50}, testHotCapacity)
	}
	if overflow != nil {
		t.Fatalf("expected no overflow while at capacity, got %+v", overflow)
	}
	if len(s.Hot) != testHotCapacity {
		t.Fatalf("expected hot to be exactly at capacity, got %d", len(s.Hot))
	}

	s, overflow, spilled := AddHot(s, Entry{Timestamp: base.Add(11 * time.Hour), Summary: "newest", Mood: 60}, testHotCapacity)
	if !spilled || overflow == nil {
		t.Fatal("expected the 11th push to spill the oldest entry")
	}
	if overflow.Summary != "e" {
		t.Fatalf("expected the oldest entry to overflow, got %+v", overflow)
	}
	if len(s.Hot) != testHotCapacity {
		t.Fatalf("expected hot to remain at capacity after overflow, got %d", len(s.Hot))
	}
}

func TestWeeklyConsolidationScenario(t *testing.T) {
	s := New()
	s, _, _ = AddHot(s, Entry{Timestamp: time.Now(), Summary: "good talk", Mood: 60}, testHotCapacity)
	s, _, _ = AddHot(s, Entry{Timestamp: time.Now(), Summary: "quiet moment", Mood: 40}, testHotCapacity)

	s, ok := ConsolidateToWarm(s, "2026-W08", testWarmCapacity)
	if !ok {
		t.Fatal("expected consolidation to run on non-empty hot")
	}
	if len(s.Hot) != 0 {
		t.Fatalf("expected hot to be cleared, got %d entries", len(s.Hot))
	}
	if len(s.Warm) != 1 {
		t.Fatalf("expected exactly 1 warm entry, got %d", len(s.Warm))
	}
	w := s.Warm[0]
	if w.Entries != 2 || w.AvgMood != 50 {
		t.Fatalf("expected entries=2, avg_mood=50, got %+v", w)
	}
}

func TestConsolidationIsNoOpOnEmptyHot(t *testing.T) {
	s := New()
	_, ok := ConsolidateToWarm(s, "2026-W08", testWarmCapacity)
	if ok {
		t.Fatal("expected consolidation on empty hot to be a no-op")
	}
}

func TestWarmOverflowMergesIntoCold(t *testing.T) {
	s := New()
	for i := 0; i < testWarmCapacity+1; i++ {
		s, _, _ = AddHot(s, Entry{Timestamp: time.Now(), Summary: "e", Mood: 50}, testHotCapacity)
		s, _ = ConsolidateToWarm(s, WeekID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*i)), testWarmCapacity)
	}
	if len(s.Warm) != testWarmCapacity {
		t.Fatalf("expected warm to stay at capacity, got %d", len(s.Warm))
	}
	if len(s.Cold) == 0 {
		t.Fatal("expected the overflowing oldest warm entry to land in cold")
	}
}

func TestMonthIDFromWeekRounding(t *testing.T) {
	cases := map[string]string{
		"2026-W01": "2026-01",
		"2026-W05": "2026-02",
		"2026-W48": "2026-12",
		"2026-W53": "2026-12",
	}
	for week, wantMonth := range cases {
		got := monthIDFromWeek(week)
		if got != wantMonth {
			t.Errorf("monthIDFromWeek(%s) = %s, want %s", week, got, wantMonth)
		}
	}
}

func TestColdMergeWeightedAverage(t *testing.T) {
	var cold []MonthlySummary
	cold = mergeIntoCold(cold, WeeklySummary{WeekID: "2026-W01", Entries: 2, Summary: "a", AvgMood: 40})
	cold = mergeIntoCold(cold, WeeklySummary{WeekID: "2026-W02", Entries: 3, Summary: "b", AvgMood: 60})

	if len(cold) != 1 {
		t.Fatalf("expected both weeks to merge into the same month, got %d months", len(cold))
	}
	if cold[0].Weeks != 2 {
		t.Fatalf("expected weeks=2, got %d", cold[0].Weeks)
	}
	if cold[0].AvgMood != 50 {
		t.Fatalf("expected weighted avg_mood=50, got %d", cold[0].AvgMood)
	}
}

func TestNotesAreAppendOnly(t *testing.T) {
	s := New()
	s = AddNote(s, "first")
	first := append([]string(nil), s.Notes...)
	s = AddNote(s, "second")
	if len(s.Notes) != 2 || s.Notes[0] != first[0] {
		t.Fatalf("expected notes to accumulate, got %v", s.Notes)
	}
}
