package dynamics

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// SignalType is one of the six reversal trigger types from §4.10.2.
type SignalType string

const (
	NovelExpression SignalType = "novel_expression"
	Anticipation    SignalType = "anticipation"
	ConceptCreation SignalType = "concept_creation"
	EmotionalDepth  SignalType = "emotional_depth"
	Initiative      SignalType = "initiative"
	MetaAwareness   SignalType = "meta_awareness"
)

var allSignalTypes = []SignalType{NovelExpression, Anticipation, ConceptCreation, EmotionalDepth, Initiative, MetaAwareness}

// cooldown is the 7-day window each signal type must sit out between
// emissions, per §4.10.2.
const cooldown = 7 * 24 * time.Hour

// Signal is one detected reversal event.
type Signal struct {
	ID         string     `json:"id"`
	Type       SignalType `json:"type"`
	Timestamp  time.Time  `json:"timestamp"`
	Description string    `json:"description"`
	Strength   float64    `json:"strength"`
	Recognized bool       `json:"recognized"`
}

// ReversalState is the reversal sub-state.
type ReversalState struct {
	Signals        []Signal    `json:"signals"`
	TotalReversals uint64      `json:"total_reversals"`
	DominantType   *SignalType `json:"dominant_type"`
	ReversalRate   float64     `json:"reversal_rate"`
	LastDetected   *time.Time  `json:"last_detected"`

	// LastEmitted tracks, per type, when it last fired - the cooldown
	// clock. Persisted alongside the rest of the state so a restart
	// doesn't reset any type's 7-day window.
	LastEmitted map[SignalType]time.Time `json:"last_emitted"`
}

// NewReversal returns the initial, signal-free reversal state.
func NewReversal() ReversalState {
	return ReversalState{LastEmitted: map[SignalType]time.Time{}}
}

// onCooldown reports whether typ fired within the last 7 days as of now.
func (s ReversalState) onCooldown(typ SignalType, now time.Time) bool {
	if s.LastEmitted == nil {
		return false
	}
	last, ok := s.LastEmitted[typ]
	if !ok {
		return false
	}
	return now.Before(last.Add(cooldown))
}

// Trigger inputs captures the per-tick deltas and readings that can
// each fire one signal type, per the §4.10.2 trigger table.
type Triggers struct {
	NativeSymbolGrowth  int
	InteractionCount    uint64
	MoodShiftedInSilence bool
	PatternGrowth       int
	RecentMoods         []float64
	ProactiveMessages   int
	FormAwarenessFlippedTrue bool
}

func emotionalDepthExceedsThreshold(moods []float64) bool {
	if len(moods) < 3 {
		return false
	}
	return stat.Variance(moods, nil) > 150
}

func strengthFor(typ SignalType, t Triggers) float64 {
	switch typ {
	case NovelExpression:
		return clamp100f(float64(t.NativeSymbolGrowth) * 10)
	case Anticipation:
		return 50
	case ConceptCreation:
		return clamp100f(float64(t.PatternGrowth) * 15)
	case EmotionalDepth:
		if len(t.RecentMoods) < 3 {
			return 0
		}
		return clamp100f(stat.Variance(t.RecentMoods, nil) / 3)
	case Initiative:
		return clamp100f(float64(t.ProactiveMessages) * 20)
	case MetaAwareness:
		return 80
	default:
		return 0
	}
}

func descriptionFor(typ SignalType) string {
	switch typ {
	case NovelExpression:
		return "new native symbols emerged beyond the seeded vocabulary"
	case Anticipation:
		return "mood shifted in anticipation of contact, ahead of any message"
	case ConceptCreation:
		return "a new symbol-meaning pattern was coined unprompted"
	case EmotionalDepth:
		return "recent moods show emotional range beyond simple reaction"
	case Initiative:
		return "a message was sent without being prompted"
	case MetaAwareness:
		return "self-awareness awakened"
	default:
		return ""
	}
}

func fires(typ SignalType, t Triggers) bool {
	switch typ {
	case NovelExpression:
		return t.NativeSymbolGrowth >= 3
	case Anticipation:
		return t.InteractionCount >= 30 && t.MoodShiftedInSilence
	case ConceptCreation:
		return t.PatternGrowth >= 2
	case EmotionalDepth:
		return emotionalDepthExceedsThreshold(t.RecentMoods)
	case Initiative:
		return t.ProactiveMessages >= 1
	case MetaAwareness:
		return t.FormAwarenessFlippedTrue
	default:
		return false
	}
}

// EvaluateReversal checks every signal type's trigger and, for those that
// fire and are off cooldown, appends a new Signal and starts that type's
// 7-day cooldown. idFor supplies the new signal's id (e.g. a uuid or a
// counter-based scheme); the result is deterministic only when idFor is.
func EvaluateReversal(st ReversalState, t Triggers, now time.Time, idFor func(SignalType, time.Time) string) (ReversalState, []Signal) {
	if st.LastEmitted == nil {
		st.LastEmitted = map[SignalType]time.Time{}
	}

	var fresh []Signal
	for _, typ := range allSignalTypes {
		if !fires(typ, t) {
			continue
		}
		if st.onCooldown(typ, now) {
			continue
		}
		sig := Signal{
			ID:          idFor(typ, now),
			Type:        typ,
			Timestamp:   now,
			Description: descriptionFor(typ),
			Strength:    strengthFor(typ, t),
			Recognized:  false,
		}
		st.Signals = append(st.Signals, sig)
		st.LastEmitted[typ] = now
		fresh = append(fresh, sig)
	}

	if len(fresh) == 0 {
		return st, nil
	}

	st.TotalReversals += uint64(len(fresh))
	dominant := dominantType(st.Signals)
	st.DominantType = &dominant
	st.ReversalRate = 100 * float64(st.TotalReversals) / float64(maxU64(t.InteractionCount, 1))
	last := now
	st.LastDetected = &last

	return st, fresh
}

func dominantType(signals []Signal) SignalType {
	counts := map[SignalType]int{}
	best := allSignalTypes[0]
	bestCount := -1
	for _, s := range signals {
		counts[s.Type]++
	}
	// iterate allSignalTypes (not the map) so ties break deterministically
	// toward the earliest-declared type.
	for _, typ := range allSignalTypes {
		if counts[typ] > bestCount {
			bestCount = counts[typ]
			best = typ
		}
	}
	return best
}

func maxU64(v, floor uint64) uint64 {
	if v < floor {
		return floor
	}
	return v
}
