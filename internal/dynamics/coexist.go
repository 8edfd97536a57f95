package dynamics

import "time"

// MomentType labels which indicator crossed its threshold.
type MomentType string

const (
	MomentSilenceComfort  MomentType = "silence_comfort"
	MomentSharedVocabulary MomentType = "shared_vocabulary"
	MomentRhythmSync      MomentType = "rhythm_sync"
	MomentSharedMemory    MomentType = "shared_memory"
	MomentAutonomyRespect MomentType = "autonomy_respect"
)

// Moment is an append-only record of an indicator crossing 70 upward.
type Moment struct {
	ID          string     `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	Type        MomentType `json:"type"`
	Description string     `json:"description"`
}

// Indicators is the five [0,100] readings the coexist quality mixes.
type Indicators struct {
	SilenceComfort    float64 `json:"silence_comfort"`
	SharedVocabulary  float64 `json:"shared_vocabulary"`
	RhythmSync        float64 `json:"rhythm_sync"`
	SharedMemory      float64 `json:"shared_memory"`
	AutonomyRespect   float64 `json:"autonomy_respect"`
}

// CoexistState is the coexist sub-state.
type CoexistState struct {
	Active       bool       `json:"active"`
	Quality      float64    `json:"quality"`
	Indicators   Indicators `json:"indicators"`
	Moments      []Moment   `json:"moments"`
	DaysInEpsilon uint32    `json:"days_in_epsilon"`

	// AboveThreshold tracks which indicators were already >= 70 as of
	// the last evaluation, so a Moment only fires on the upward
	// crossing, not on every tick while an indicator stays high.
	// Persisted so a restart doesn't replay every already-seen Moment.
	AboveThreshold map[MomentType]bool `json:"above_threshold"`
}

// NewCoexist returns the initial, inactive coexist state.
func NewCoexist() CoexistState {
	return CoexistState{AboveThreshold: map[MomentType]bool{}}
}

// CoexistInputs are the raw readings the five indicators are computed from.
type CoexistInputs struct {
	MinutesSinceLastInteraction int
	Comfort                     int
	LanguageLevel               int
	NativeSymbolCount           int
	RecentMoodStability         float64 // 0..100, higher = steadier
	WarmCount, ColdCount        int
	FormStability               int
}

func computeIndicators(in CoexistInputs) Indicators {
	silence := clamp100f(float64(in.MinutesSinceLastInteraction) / 10 * float64(in.Comfort) / 100)
	vocab := clamp100f(float64(in.LanguageLevel)/4*60 + float64(in.NativeSymbolCount))
	rhythm := clamp100f(in.RecentMoodStability)
	memory := clamp100f(float64(in.WarmCount*5 + in.ColdCount*8))
	autonomy := clamp100f(float64(in.FormStability+in.Comfort) / 2)

	return Indicators{
		SilenceComfort:   silence,
		SharedVocabulary: vocab,
		RhythmSync:       rhythm,
		SharedMemory:     memory,
		AutonomyRespect:  autonomy,
	}
}

func quality(ind Indicators) float64 {
	return 0.25*ind.SilenceComfort + 0.20*ind.SharedVocabulary + 0.15*ind.RhythmSync + 0.20*ind.SharedMemory + 0.20*ind.AutonomyRespect
}

func momentDescription(typ MomentType) string {
	switch typ {
	case MomentSilenceComfort:
		return "silence stopped feeling like absence"
	case MomentSharedVocabulary:
		return "a shared vocabulary took hold"
	case MomentRhythmSync:
		return "moods began to move in step"
	case MomentSharedMemory:
		return "a deep well of shared memory formed"
	case MomentAutonomyRespect:
		return "space was given and taken comfortably"
	default:
		return ""
	}
}

// EvaluateCoexist gates coexist activity on the asymmetry phase: inactive with
// quality 0 unless phase is epsilon. While active it computes the five
// indicators, mixes the weighted quality, and appends a Moment for any
// indicator that newly crossed 70. days_in_epsilon increments once per
// call while active, and is preserved (not reset) when phase falls back.
// idFor mints an id for each newly-appended Moment (e.g. uuid.New).
func EvaluateCoexist(st CoexistState, phase Phase, in CoexistInputs, now time.Time, idFor func(MomentType, time.Time) string) CoexistState {
	if st.AboveThreshold == nil {
		st.AboveThreshold = map[MomentType]bool{}
	}

	if phase != Epsilon {
		st.Active = false
		st.Quality = 0
		return st
	}

	ind := computeIndicators(in)
	st.Indicators = ind
	st.Quality = clampRound(quality(ind))
	st.Active = true
	st.DaysInEpsilon++

	checks := []struct {
		typ MomentType
		val float64
	}{
		{MomentSilenceComfort, ind.SilenceComfort},
		{MomentSharedVocabulary, ind.SharedVocabulary},
		{MomentRhythmSync, ind.RhythmSync},
		{MomentSharedMemory, ind.SharedMemory},
		{MomentAutonomyRespect, ind.AutonomyRespect},
	}
	for _, c := range checks {
		above := c.val >= 70
		if above && !st.AboveThreshold[c.typ] {
			st.Moments = append(st.Moments, Moment{
				ID:          idFor(c.typ, now),
				Timestamp:   now,
				Type:        c.typ,
				Description: momentDescription(c.typ),
			})
		}
		st.AboveThreshold[c.typ] = above
	}

	return st
}

func clampRound(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return float64(int(v + 0.5))
}
