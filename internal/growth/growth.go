// Package growth maps elapsed days to a developmental stage and tracks
// the append-only milestone ledger.
package growth

import "time"

// Stage is one of the five developmental stages.
type Stage string

const (
	Newborn    Stage = "newborn"
	Infant     Stage = "infant"
	Child      Stage = "child"
	Adolescent Stage = "adolescent"
	Mature     Stage = "mature"
)

var stageOrder = []Stage{Newborn, Infant, Child, Adolescent, Mature}

func stageRank(s Stage) int {
	for i, v := range stageOrder {
		if v == s {
			return i
		}
	}
	return 0
}

// ComputeStage maps growth_day to a stage via the fixed table in §4.7.
func ComputeStage(growthDay int) Stage {
	switch {
	case growthDay < 7:
		return Newborn
	case growthDay < 21:
		return Infant
	case growthDay < 60:
		return Child
	case growthDay < 120:
		return Adolescent
	default:
		return Mature
	}
}

// Milestone is an append-only achievement record.
type Milestone struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	AchievedDay int       `json:"achieved_day"`
	AchievedAt  time.Time `json:"achieved_at"`
}

// State is the growth sub-state.
type State struct {
	Stage      Stage       `json:"stage"`
	Milestones []Milestone `json:"milestones"`
}

// New returns the initial growth state for a newborn entity.
func New() State {
	return State{Stage: Newborn}
}

// Has reports whether a milestone id has already been achieved.
func (s State) Has(id string) bool {
	for _, m := range s.Milestones {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Achieve appends a milestone if its id hasn't already been recorded.
// It returns the updated state and whether a new milestone was added.
func Achieve(s State, id, label string, day int, now time.Time) (State, *Milestone, bool) {
	if s.Has(id) {
		return s, nil, false
	}
	m := Milestone{ID: id, Label: label, AchievedDay: day, AchievedAt: now}
	milestones := make([]Milestone, len(s.Milestones), len(s.Milestones)+1)
	copy(milestones, s.Milestones)
	milestones = append(milestones, m)
	s.Milestones = milestones
	return s, &m, true
}

// AdvanceStage recomputes the stage from growthDay. Stage transitions
// only ever move forward (stageRank is non-decreasing); a caller whose
// growthDay somehow regresses keeps the existing, more advanced stage.
func AdvanceStage(s State, growthDay int) (State, bool) {
	next := ComputeStage(growthDay)
	if stageRank(next) <= stageRank(s.Stage) {
		return s, false
	}
	s.Stage = next
	return s, true
}

// StageMilestoneID returns the deterministic milestone id for entering a stage.
func StageMilestoneID(s Stage) string {
	return "stage_" + string(s)
}
