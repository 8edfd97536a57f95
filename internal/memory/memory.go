// Package memory implements the three-tier aging memory store: hot
// (raw recent entries), warm (weekly summaries), and cold (monthly
// summaries), plus a flat notes list (§4.6).
package memory

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Entry is one raw hot-memory record.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Summary   string    `json:"summary"`
	Mood      int       `json:"mood"`
}

// WeeklySummary is one consolidated warm-memory record.
type WeeklySummary struct {
	WeekID  string `json:"week_id"`
	Entries int    `json:"entries"`
	Summary string `json:"summary"`
	AvgMood int    `json:"avg_mood"`
}

// MonthlySummary is one cold-memory record, possibly merged from
// several consolidated weeks.
type MonthlySummary struct {
	MonthID string `json:"month_id"`
	Weeks   int    `json:"weeks"`
	Summary string `json:"summary"`
	AvgMood int    `json:"avg_mood"`
}

// State is the memory sub-state.
type State struct {
	Hot   []Entry          `json:"hot"`
	Warm  []WeeklySummary  `json:"warm"`
	Cold  []MonthlySummary `json:"cold"`
	Notes []string         `json:"notes"`
}

// New returns the empty memory state.
func New() State {
	return State{}
}

// AddHot pushes entry onto hot. If hot then exceeds hotCapacity, the
// oldest entry is popped and returned as overflow.
func AddHot(s State, entry Entry, hotCapacity int) (State, *Entry, bool) {
	hot := make([]Entry, len(s.Hot), len(s.Hot)+1)
	copy(hot, s.Hot)
	hot = append(hot, entry)

	if len(hot) > hotCapacity {
		overflow := hot[0]
		s.Hot = append([]Entry(nil), hot[1:]...)
		return s, &overflow, true
	}
	s.Hot = hot
	return s, nil, false
}

// WeekID formats a timestamp as its ISO week id, "YYYY-Www".
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func round(v float64) int {
	return int(math.Round(v))
}

// ConsolidateToWarm folds all current hot entries into one WeeklySummary
// and appends it to warm, clearing hot. If warm then exceeds
// warmCapacity, the oldest warm entry is folded into cold (§4.6). A
// no-op (false) if hot is empty: consolidation only ever runs on a
// non-empty hot tier.
func ConsolidateToWarm(s State, weekID string, warmCapacity int) (State, bool) {
	if len(s.Hot) == 0 {
		return s, false
	}

	summaries := make([]string, len(s.Hot))
	total := 0
	for i, e := range s.Hot {
		summaries[i] = e.Summary
		total += e.Mood
	}

	ws := WeeklySummary{
		WeekID:  weekID,
		Entries: len(s.Hot),
		Summary: strings.Join(summaries, "/"),
		AvgMood: round(float64(total) / float64(len(s.Hot))),
	}

	s.Warm = append(append([]WeeklySummary(nil), s.Warm...), ws)
	s.Hot = nil

	if len(s.Warm) > warmCapacity {
		oldest := s.Warm[0]
		s.Warm = append([]WeeklySummary(nil), s.Warm[1:]...)
		s.Cold = mergeIntoCold(s.Cold, oldest)
	}

	return s, true
}

// monthIDFromWeek resolves a "YYYY-Www" week id to its "YYYY-MM" month
// id by ceil(week_num/4.33), per §4.6.
func monthIDFromWeek(weekID string) string {
	parts := strings.SplitN(weekID, "-W", 2)
	if len(parts) != 2 {
		return weekID
	}
	year := parts[0]
	weekNum, err := strconv.Atoi(parts[1])
	if err != nil {
		return weekID
	}
	month := int(math.Ceil(float64(weekNum) / 4.33))
	if month < 1 {
		month = 1
	}
	if month > 12 {
		month = 12
	}
	return fmt.Sprintf("%s-%02d", year, month)
}

// mergeIntoCold folds an overflowing WeeklySummary into cold, merging
// by month id with a weighted average of mood across the prior weeks
// count, or appending a new MonthlySummary if the month is unseen.
func mergeIntoCold(cold []MonthlySummary, ws WeeklySummary) []MonthlySummary {
	monthID := monthIDFromWeek(ws.WeekID)

	out := append([]MonthlySummary(nil), cold...)
	for i := range out {
		if out[i].MonthID != monthID {
			continue
		}
		priorWeeks := out[i].Weeks
		totalMood := out[i].AvgMood*priorWeeks + ws.AvgMood
		out[i].Weeks = priorWeeks + 1
		out[i].AvgMood = round(float64(totalMood) / float64(out[i].Weeks))
		out[i].Summary = out[i].Summary + " / " + ws.Summary
		return out
	}

	out = append(out, MonthlySummary{
		MonthID: monthID,
		Weeks:   1,
		Summary: ws.Summary,
		AvgMood: ws.AvgMood,
	})
	sort.Slice(out, func(i, j int) bool { return out[i].MonthID < out[j].MonthID })
	return out
}

// AddNote appends a free-form note. Notes are append-only.
func AddNote(s State, note string) State {
	s.Notes = append(append([]string(nil), s.Notes...), note)
	return s
}

// Depth is the (hot, warm, cold, notes) size vector dynamics reads
// memory_depth and shared_memory off of.
type Depth struct {
	Hot, Warm, Cold, Notes int
}

// CountDepth returns the current tier sizes.
func CountDepth(s State) Depth {
	return Depth{Hot: len(s.Hot), Warm: len(s.Warm), Cold: len(s.Cold), Notes: len(s.Notes)}
}
