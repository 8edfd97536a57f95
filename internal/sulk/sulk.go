// Package sulk implements the four-state sulk machine gating which
// "soul" document (SOUL.md vs SOUL_EVIL.md) is active.
package sulk

import (
	"time"

	"github.com/yadori/yadori/internal/seed"
	"github.com/yadori/yadori/internal/status"
)

// Severity is one of the four sulk ranks.
type Severity string

const (
	None     Severity = "none"
	Mild     Severity = "mild"
	Moderate Severity = "moderate"
	Severe   Severity = "severe"
)

var order = []Severity{None, Mild, Moderate, Severe}

func rank(s Severity) int {
	for i, v := range order {
		if v == s {
			return i
		}
	}
	return 0
}

// recoveryThreshold is the number of process_sulk_interaction calls
// required, at comfort>=40, to step a severity down one rank (§4.4).
var recoveryThreshold = map[Severity]uint32{
	Mild:     3,
	Moderate: 4,
	Severe:   5,
}

// State is the sulk sub-state carried inside EntityState.
type State struct {
	IsSulking            bool       `json:"is_sulking"`
	Severity             Severity   `json:"severity"`
	RecoveryInteractions uint32     `json:"recovery_interactions"`
	SulkingSince         *time.Time `json:"sulking_since"`
}

// New returns the initial, non-sulking state.
func New() State {
	return State{Severity: None}
}

// temperamentBias adjusts the sulk score per §4.4: curious-cautious +1,
// calm-observant -1, the other two temperaments +0.
func temperamentBias(t seed.Temperament) int {
	switch t {
	case seed.CuriousCautious:
		return 1
	case seed.CalmObservant:
		return -1
	default:
		return 0
	}
}

// score combines low-comfort and low-mood contributions, modulated by
// temperament, into a single onset-severity score.
func score(s status.Status, temperament seed.Temperament) int {
	v := 0
	if s.Comfort < 20 {
		v += (20 - s.Comfort)
	}
	if s.Mood < 30 {
		v += (30 - s.Mood)
	}
	v += temperamentBias(temperament)
	if v < 0 {
		v = 0
	}
	return v
}

func severityFromScore(v int) Severity {
	switch {
	case v >= 40:
		return Severe
	case v >= 20:
		return Moderate
	default:
		return Mild
	}
}

// EvaluateHeartbeat runs the heartbeat-path onset check (§4.4). It
// returns the possibly-unchanged state; onset never fires twice while
// already sulking (severity only moves via EvaluateHeartbeat onto a
// fresh severity if the recomputed score now ranks higher, or via
// ProcessInteraction's recovery path on the way down).
func EvaluateHeartbeat(st State, s status.Status, temperament seed.Temperament, minutesSinceLastInteraction int, silenceThresholdMinutes int, now time.Time) State {
	sc := score(s, temperament)

	triggeredByMood := s.Comfort < 20 && s.Mood < 30
	triggeredBySilence := minutesSinceLastInteraction > silenceThresholdMinutes && s.Comfort < 40

	if !triggeredByMood && !triggeredBySilence {
		return st
	}

	newSeverity := severityFromScore(sc)
	if st.IsSulking && rank(newSeverity) <= rank(st.Severity) {
		return st
	}

	st.IsSulking = true
	st.Severity = newSeverity
	if st.SulkingSince == nil {
		t := now
		st.SulkingSince = &t
	}
	return st
}

// ProcessInteraction is the interaction-path recovery step (§4.4):
// while sulking, every interaction increments RecoveryInteractions; at
// comfort>=40 and enough accumulated recovery interactions for the
// current severity, step down one rank. Reaching None clears IsSulking
// and SulkingSince.
func ProcessInteraction(st State, comfort int) State {
	if !st.IsSulking {
		return st
	}

	st.RecoveryInteractions++

	threshold, ok := recoveryThreshold[st.Severity]
	if !ok {
		threshold = 1
	}

	if comfort >= 40 && st.RecoveryInteractions >= threshold {
		idx := rank(st.Severity)
		if idx > 0 {
			st.Severity = order[idx-1]
		}
		st.RecoveryInteractions = 0

		if st.Severity == None {
			st.IsSulking = false
			st.SulkingSince = nil
		}
	}

	return st
}

// ActiveSoulFile chooses which soul markdown document is active.
func ActiveSoulFile(st State) string {
	if st.IsSulking {
		return "SOUL_EVIL.md"
	}
	return "SOUL.md"
}

// ProactiveSuppressed reports whether proactive signals must be
// suppressed: at severity "severe", silence is itself the expression.
func ProactiveSuppressed(st State) bool {
	return st.Severity == Severe
}
