// Package dynamics tracks the entity/user relationship: the Asymmetry
// phase tracker, the Reversal detector, and the Coexist engine (§4.10).
package dynamics

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one of the five hysteresis-bounded asymmetry phases.
type Phase string

const (
	Alpha   Phase = "alpha"
	Beta    Phase = "beta"
	Gamma   Phase = "gamma"
	Delta   Phase = "delta"
	Epsilon Phase = "epsilon"
)

var phaseOrder = []Phase{Alpha, Beta, Gamma, Delta, Epsilon}

func phaseRank(p Phase) int {
	for i, v := range phaseOrder {
		if v == p {
			return i
		}
	}
	return 0
}

// Transition is an append-only record of a phase change.
type Transition struct {
	From      Phase     `json:"from"`
	To        Phase     `json:"to"`
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// Signals is the six-signal vector the asymmetry score is mixed from.
type Signals struct {
	LanguageMaturity     float64 `json:"language_maturity"`
	TemporalMaturity     float64 `json:"temporal_maturity"`
	MemoryDepth          float64 `json:"memory_depth"`
	InitiativeBalance    float64 `json:"initiative_balance"`
	EmotionalComplexity  float64 `json:"emotional_complexity"`
	IdentityStrength     float64 `json:"identity_strength"`
}

// AsymmetryState is the asymmetry sub-state.
type AsymmetryState struct {
	Phase       Phase        `json:"phase"`
	Score       float64      `json:"score"`
	Confidence  float64      `json:"confidence"`
	Signals     Signals      `json:"signals"`
	Transitions []Transition `json:"transitions"`

	// Initiative is a running counter seeded at 10 and nudged by
	// proactive messages (+) and reversal detections (-), per §4.10.1.
	Initiative float64 `json:"initiative"`
}

// New returns the initial asymmetry state: phase alpha, initiative
// seeded at 10 as specified.
func New() AsymmetryState {
	return AsymmetryState{Phase: Alpha, Initiative: 10}
}

func clamp100f(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// FormSignals is the subset of form state identity_strength reads off of.
type FormSignals struct {
	Density, Complexity, Stability int
	Awareness                      bool
}

// MemoryCounts is the subset of memory sizes memory_depth reads off of.
type MemoryCounts struct {
	Hot, Warm, Cold, Notes int
}

// AdjustInitiative nudges the initiative signal: +2 for each proactive
// message sent since the last tick and -3 for each reversal signal
// newly detected, clamped to [0,100].
func AdjustInitiative(current float64, proactiveMessages, newReversals int) float64 {
	current += float64(proactiveMessages) * 2
	current -= float64(newReversals) * 3
	return clamp100f(current)
}

// recentMoodVariance computes the sample (n-1) variance of recent mood
// samples via gonum/stat, scaled into a [0,100] complexity reading.
// Fewer than 3 samples yields zero: there isn't enough history to call
// anything "complex" yet.
func recentMoodVariance(recentMoods []float64) float64 {
	if len(recentMoods) < 3 {
		return 0
	}
	v := stat.Variance(recentMoods, nil)
	// a variance of 400 (std dev 20) saturates the signal
	return clamp100f(v / 4)
}

// ComputeSignals derives the six §4.10.1 signals from the rest of the
// entity's state.
func ComputeSignals(
	languageLevel int,
	growthDay int,
	memCounts MemoryCounts,
	initiative float64,
	recentMoods []float64,
	form FormSignals,
) Signals {
	languageMaturity := clamp100f(float64(languageLevel) / 4 * 100)

	// temporal_maturity is monotone in growth_day, saturating around
	// one growth year (365 days) as "fully temporally mature."
	temporalMaturity := clamp100f(float64(growthDay) / 365 * 100)

	memoryDepth := clamp100f(float64(memCounts.Hot+memCounts.Warm*2+memCounts.Cold*3+memCounts.Notes) / 2)

	emotionalComplexity := recentMoodVariance(recentMoods)

	identityStrength := clamp100f(float64(form.Density+form.Complexity+form.Stability) / 3)
	if form.Awareness {
		identityStrength = clamp100f(identityStrength + 15)
	}

	return Signals{
		LanguageMaturity:    languageMaturity,
		TemporalMaturity:    temporalMaturity,
		MemoryDepth:         memoryDepth,
		InitiativeBalance:   clamp100f(initiative),
		EmotionalComplexity: emotionalComplexity,
		IdentityStrength:    identityStrength,
	}
}

// score weights the six signals into one composite figure.
func score(sig Signals) float64 {
	return 0.20*sig.LanguageMaturity +
		0.15*sig.TemporalMaturity +
		0.20*sig.MemoryDepth +
		0.10*sig.InitiativeBalance +
		0.15*sig.EmotionalComplexity +
		0.20*sig.IdentityStrength
}

// phaseFor maps a score into a phase under the fixed thresholds of
// §4.10.1. Hysteresis (never rolling backward) is enforced by the
// caller, not here: this is the raw, unbounded mapping.
func phaseFor(s float64) Phase {
	switch {
	case s < 15:
		return Alpha
	case s < 35:
		return Beta
	case s < 55:
		return Gamma
	case s < 75:
		return Delta
	default:
		return Epsilon
	}
}

// EvaluateAsymmetry recomputes the asymmetry signals and score, and advances the
// phase under hysteresis: the phase can only ever move forward (or
// stay), appending a Transition on every forward move. Confidence
// tracks how far the score sits past its current phase's lower bound
// as a fraction of the phase band's width.
func EvaluateAsymmetry(
	st AsymmetryState,
	languageLevel, growthDay int,
	memCounts MemoryCounts,
	recentMoods []float64,
	form FormSignals,
	now time.Time,
) AsymmetryState {
	sig := ComputeSignals(languageLevel, growthDay, memCounts, st.Initiative, recentMoods, form)
	sc := clamp100f(score(sig))

	candidate := phaseFor(sc)
	st.Signals = sig
	st.Score = sc

	if phaseRank(candidate) > phaseRank(st.Phase) {
		st.Transitions = append(append([]Transition(nil), st.Transitions...), Transition{
			From:      st.Phase,
			To:        candidate,
			Timestamp: now,
			Score:     sc,
		})
		st.Phase = candidate
	}

	st.Confidence = confidenceFor(st.Phase, sc)
	return st
}

func confidenceFor(p Phase, s float64) float64 {
	lo, hi := bandFor(p)
	if hi <= lo {
		return 100
	}
	frac := (s - lo) / (hi - lo)
	return clamp100f(frac * 100)
}

func bandFor(p Phase) (lo, hi float64) {
	switch p {
	case Alpha:
		return 0, 15
	case Beta:
		return 15, 35
	case Gamma:
		return 35, 55
	case Delta:
		return 55, 75
	default:
		return 75, 100
	}
}
