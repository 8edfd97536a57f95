// Package engine is the pure, deterministic Life Engine: it wires the
// ten sub-systems into the two ordered pipelines (§4.2) that are the
// only way an EntityState is ever allowed to change.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/yadori/yadori/internal/config"
	"github.com/yadori/yadori/internal/dynamics"
	"github.com/yadori/yadori/internal/encounter"
	"github.com/yadori/yadori/internal/form"
	"github.com/yadori/yadori/internal/growth"
	"github.com/yadori/yadori/internal/language"
	"github.com/yadori/yadori/internal/memory"
	"github.com/yadori/yadori/internal/mood"
	"github.com/yadori/yadori/internal/perception"
	"github.com/yadori/yadori/internal/seed"
	"github.com/yadori/yadori/internal/status"
	"github.com/yadori/yadori/internal/sulk"
)

// EntityState is the complete, serializable state vector the core
// evolves. Every field is owned by exactly one sub-system package;
// engine only ever reads/writes through their pure functions.
type EntityState struct {
	Seed       seed.Seed
	Status     status.Status
	Sulk       sulk.State
	Language   language.State
	Memory     memory.State
	Growth     growth.State
	Form       form.State
	Perception perception.Growth
	Asymmetry  dynamics.AsymmetryState
	Reversal   dynamics.ReversalState
	Coexist    dynamics.CoexistState

	// SeenModalities is the running set of distinct modality kinds
	// ever observed, so perception growth's modality-breadth threshold
	// is evaluated against true lifetime distinctness rather than one
	// tick's sample.
	SeenModalities map[perception.Modality]bool

	// RecentMoods is a short rolling window of past Mood readings,
	// feeding the emotional_complexity/emotional_depth/rhythm_sync
	// variance calculations. Bounded to a fixed window by the caller.
	RecentMoods []float64

	// PatternCountAtLastHeartbeat is the Language.Patterns length as of
	// the previous heartbeat, letting the heartbeat pipeline compute a
	// concept_creation trigger delta without re-scanning history.
	PatternCountAtLastHeartbeat int
}

// New returns the entity state immediately after genesis, with the
// first_breath milestone already recorded at day 0 (§4.2 step 1 list).
func New(sd seed.Seed) EntityState {
	st := EntityState{
		Seed:           sd,
		Status:         status.New(),
		Sulk:           sulk.New(),
		Language:       language.New(sd.Perception),
		Memory:         memory.New(),
		Growth:         growth.New(),
		Form:           form.New(sd.Form),
		Asymmetry:      dynamics.New(),
		Reversal:       dynamics.NewReversal(),
		Coexist:        dynamics.NewCoexist(),
		SeenModalities: map[perception.Modality]bool{},
	}
	st.Growth, _, _ = growth.Achieve(st.Growth, "first_breath", "drew its first breath", 0, sd.CreatedAt)
	return st
}

// interactionCountMilestones checks the fixed interaction-count
// thresholds from §4.2's milestone list against the new total.
func interactionCountMilestones(g growth.State, total uint64, growthDay int, now time.Time) (growth.State, []growth.Milestone) {
	var out []growth.Milestone
	if total == 1 {
		if m, new_, ok := growth.Achieve(g, "first_interaction", "had its first interaction", growthDay, now); ok {
			g = m
			out = append(out, *new_)
		}
	}
	if total == 10 {
		if m, new_, ok := growth.Achieve(g, "10_interactions", "reached 10 interactions", growthDay, now); ok {
			g = m
			out = append(out, *new_)
		}
	}
	if total == 100 {
		if m, new_, ok := growth.Achieve(g, "100_interactions", "reached 100 interactions", growthDay, now); ok {
			g = m
			out = append(out, *new_)
		}
	}
	return g, out
}

func growthDayOf(sd seed.Seed, now time.Time) int {
	d := now.Sub(sd.CreatedAt)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

const recentMoodWindow = 10

func pushRecentMood(moods []float64, v int) []float64 {
	out := append(append([]float64(nil), moods...), float64(v))
	if len(out) > recentMoodWindow {
		out = out[len(out)-recentMoodWindow:]
	}
	return out
}

// Milestone achievement helper: tries the growth-stage milestone and
// any language-level milestone, returning every newly-achieved one.
func achieveMilestones(g growth.State, lang language.State, growthDay int, now time.Time) (growth.State, []growth.Milestone) {
	var achieved []growth.Milestone

	stageID := growth.StageMilestoneID(g.Stage)
	if m, new_, ok := growth.Achieve(g, stageID, fmt.Sprintf("reached the %s stage", g.Stage), growthDay, now); ok {
		g = m
		achieved = append(achieved, *new_)
	}

	if lang.Level > 0 {
		langID := language.MilestoneID(lang.Level)
		if langID != "" && !g.Has(langID) {
			if m, new_, ok := growth.Achieve(g, langID, fmt.Sprintf("reached language level %d", lang.Level), growthDay, now); ok {
				g = m
				achieved = append(achieved, *new_)
			}
		}
	}

	return g, achieved
}

// HeartbeatInputs are the ambient readings a collaborator supplies for
// one heartbeat tick: sensor inputs accrued since the last tick (for
// Perception, after Honest Perception filtering has already happened
// upstream - engine only counts modality breadth, never raw content),
// and how many proactive messages the entity sent since the last tick.
type HeartbeatInputs struct {
	ModalitiesObserved    []perception.Modality
	SensoryInputCount     uint64
	ProactiveMessagesSent int
}

// HeartbeatResult is the ordered-pipeline output record (§4.2).
type HeartbeatResult struct {
	State               EntityState
	Diary               *string
	DiaryDate           *time.Time
	Wake                bool
	Sleep               bool
	NewMilestones       []growth.Milestone
	NewReversals        []dynamics.Signal
	ActiveSoulFile      string
	SoulEvilMd          *string
	MemoryConsolidated  bool
	ProactiveSuppressed bool
}

// IDGenerator mints ids for the append-only records dynamics produces.
// The production caller backs both with uuid.New (see cmd/yadori);
// tests can supply deterministic stand-ins.
type IDGenerator struct {
	Signal func(dynamics.SignalType, time.Time) string
	Moment func(dynamics.MomentType, time.Time) string
}

// ProcessHeartbeat runs the full 11-step ordered heartbeat pipeline.
func ProcessHeartbeat(st EntityState, cfg config.Config, in HeartbeatInputs, now time.Time, ids IDGenerator) HeartbeatResult {
	// (1) growth_day, propagated into Status.
	growthDay := growthDayOf(st.Seed, now)
	st.Status.GrowthDay = growthDay

	// (2) Mood natural decay.
	minutesSince := status.MinutesSinceLastInteraction(st.Status, now, cfg.NeverContactedMinutes)
	st.Status = mood.ApplyDelta(st.Status, mood.ComputeNaturalDecay(st.Status, minutesSince))

	// (3) Sulk evaluation.
	st.Sulk = sulk.EvaluateHeartbeat(st.Sulk, st.Status, st.Seed.Temperament, minutesSince, cfg.SulkSilenceThresholdMinutes, now)

	// (4) Form evolution by current stage.
	formBefore := st.Form.Awareness
	st.Form = form.Evolve(st.Form, st.Growth.Stage, st.Status)
	if !formBefore && form.ShouldAwaken(st.Form) {
		st.Form = form.AwakenSelfAwareness(st.Form)
	}
	var selfAwareMilestone []growth.Milestone
	if !formBefore && st.Form.Awareness {
		if m, new_, ok := growth.Achieve(st.Growth, "self_aware", "became self-aware", growthDay, now); ok {
			st.Growth = m
			selfAwareMilestone = append(selfAwareMilestone, *new_)
		}
	}

	// (5) Perception level advance.
	if st.SeenModalities == nil {
		st.SeenModalities = map[perception.Modality]bool{}
	}
	for _, m := range in.ModalitiesObserved {
		st.SeenModalities[m] = true
	}
	st.Perception = perception.Observe(st.Perception, in.SensoryInputCount, uint32(len(st.SeenModalities)), growthDay)
	st.Status.PerceptionLevel = st.Perception.Level

	// (6) Language re-evaluation.
	st.Language.Level = language.EvaluateLevel(st.Language, growthDay)
	st.Status.LanguageLevel = st.Language.Level

	// (7) Growth stage + milestone detection.
	st.Growth, _ = growth.AdvanceStage(st.Growth, growthDay)
	var newMilestones []growth.Milestone
	st.Growth, newMilestones = achieveMilestones(st.Growth, st.Language, growthDay, now)
	newMilestones = append(selfAwareMilestone, newMilestones...)

	// (8) Dynamics: Asymmetry, Reversal, Coexist.
	st.RecentMoods = pushRecentMood(st.RecentMoods, st.Status.Mood)
	memDepth := memory.CountDepth(st.Memory)
	st.Asymmetry.Initiative = dynamics.AdjustInitiative(st.Asymmetry.Initiative, in.ProactiveMessagesSent, 0)
	st.Asymmetry = dynamics.EvaluateAsymmetry(
		st.Asymmetry,
		st.Language.Level, growthDay,
		dynamics.MemoryCounts{Hot: memDepth.Hot, Warm: memDepth.Warm, Cold: memDepth.Cold, Notes: memDepth.Notes},
		st.RecentMoods,
		dynamics.FormSignals{Density: st.Form.Density, Complexity: st.Form.Complexity, Stability: st.Form.Stability, Awareness: st.Form.Awareness},
		now,
	)

	patternGrowth := len(st.Language.Patterns) - st.PatternCountAtLastHeartbeat
	if patternGrowth < 0 {
		patternGrowth = 0
	}
	st.PatternCountAtLastHeartbeat = len(st.Language.Patterns)
	var newReversals []dynamics.Signal
	st.Reversal, newReversals = dynamics.EvaluateReversal(st.Reversal, dynamics.Triggers{
		NativeSymbolGrowth:       0,
		InteractionCount:         st.Language.TotalInteractions,
		MoodShiftedInSilence:     minutesSince > cfg.SilenceAbsenceThresholdMinutes && st.Status.Mood != 50,
		PatternGrowth:            patternGrowth,
		RecentMoods:              st.RecentMoods,
		ProactiveMessages:        in.ProactiveMessagesSent,
		FormAwarenessFlippedTrue: !formBefore && st.Form.Awareness,
	}, now, ids.Signal)
	if len(newReversals) > 0 {
		st.Asymmetry.Initiative = dynamics.AdjustInitiative(st.Asymmetry.Initiative, 0, len(newReversals))
	}

	st.Coexist = dynamics.EvaluateCoexist(st.Coexist, st.Asymmetry.Phase, dynamics.CoexistInputs{
		MinutesSinceLastInteraction: minutesSince,
		Comfort:                     st.Status.Comfort,
		LanguageLevel:               st.Language.Level,
		NativeSymbolCount:           len(st.Language.NativeSymbols),
		RecentMoodStability:         moodStability(st.RecentMoods),
		WarmCount:                   memDepth.Warm,
		ColdCount:                   memDepth.Cold,
		FormStability:               st.Form.Stability,
	}, now, ids.Moment)

	// (9) time-of-day signal derivation.
	hour := now.UTC().Hour()
	wake := cfg.Morning.Contains(hour)
	sleep := cfg.Night.Contains(hour)
	diary := cfg.Evening.Contains(hour)
	isSunday := now.UTC().Weekday() == time.Sunday
	consolidate := isSunday && cfg.Night.Contains(hour) && len(st.Memory.Hot) > 0

	memoryConsolidated := false
	if consolidate {
		st.Memory, memoryConsolidated = memory.ConsolidateToWarm(st.Memory, memory.WeekID(now), cfg.WarmCapacity)
	}

	// (10) active_soul_file.
	activeSoulFile := sulk.ActiveSoulFile(st.Sulk)

	// (11) SOUL_EVIL markdown if sulking.
	var soulEvilMd *string
	if st.Sulk.IsSulking {
		md := renderSoulEvilMd(st.Seed.Perception, st.Sulk)
		soulEvilMd = &md
	}

	var diaryContent *string
	var diaryDate *time.Time
	if diary {
		content := renderDiaryMd(st, now)
		d := now.UTC()
		diaryContent = &content
		diaryDate = &d
	}

	return HeartbeatResult{
		State:               st,
		Diary:               diaryContent,
		DiaryDate:           diaryDate,
		Wake:                wake,
		Sleep:               sleep,
		NewMilestones:       newMilestones,
		NewReversals:        newReversals,
		ActiveSoulFile:      activeSoulFile,
		SoulEvilMd:          soulEvilMd,
		MemoryConsolidated:  memoryConsolidated,
		ProactiveSuppressed: sulk.ProactiveSuppressed(st.Sulk),
	}
}

// moodStability turns a rolling mood window into a 0..100 "steadiness"
// reading: low variance -> high stability.
func moodStability(moods []float64) float64 {
	if len(moods) < 2 {
		return 100
	}
	mean := 0.0
	for _, v := range moods {
		mean += v
	}
	mean /= float64(len(moods))
	variance := 0.0
	for _, v := range moods {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(moods))
	stability := 100 - variance/4
	if stability < 0 {
		stability = 0
	}
	if stability > 100 {
		stability = 100
	}
	return stability
}

// InteractionContext is the observable shape of one user interaction.
type InteractionContext struct {
	MinutesSinceLastInteraction int
	UserInitiated               bool
	MessageLength               int
	Summary                     string
}

// InteractionResult is the ordered-pipeline output record (§4.2) for
// an interaction event.
type InteractionResult struct {
	State                 EntityState
	NewMilestones         []growth.Milestone
	ActiveSoulFile        string
	FirstEncounter        *encounter.Reaction
	FirstEncounterDiaryMd *string
}

// ProcessInteraction runs the full 8-step ordered interaction pipeline.
func ProcessInteraction(st EntityState, cfg config.Config, ctx InteractionContext, now time.Time) InteractionResult {
	var firstEncounter *encounter.Reaction
	var firstEncounterDiary *string

	// (1) First-encounter detection.
	if st.Language.TotalInteractions == 0 {
		r := encounter.GenerateFirstEncounter(st.Seed.Perception, st.Seed.Temperament, now)
		firstEncounter = &r

		var overflow *memory.Entry
		st.Memory, overflow, _ = memory.AddHot(st.Memory, memory.Entry{
			Timestamp: r.MemoryImprint.Timestamp,
			Summary:   r.MemoryImprint.Summary,
			Mood:      r.MemoryImprint.Mood,
		}, cfg.HotCapacity)
		_ = overflow

		st.Status = mood.ApplyDelta(st.Status, r.StatusEffect)

		diary := encounter.FormatFirstEncounterDiary(r, st.Seed.Perception, st.Seed.Temperament, now)
		firstEncounterDiary = &diary
	}

	// (2) Normal Mood delta, modulated by temperament.
	effect := mood.ComputeInteractionEffect(mood.InteractionContext{
		MinutesSinceLastInteraction: ctx.MinutesSinceLastInteraction,
		UserInitiated:               ctx.UserInitiated,
		MessageLength:               ctx.MessageLength,
	}, st.Seed.Temperament)
	st.Status = mood.ApplyDelta(st.Status, effect)

	// (3) Record hot memory.
	summary := ctx.Summary
	if summary == "" {
		summary = "an exchange took place"
	}
	st.Memory, _, _ = memory.AddHot(st.Memory, memory.Entry{Timestamp: now, Summary: summary, Mood: st.Status.Mood}, cfg.HotCapacity)

	// (4) Status bookkeeping.
	ts := now
	st.Status.LastInteraction = &ts
	st.Language.TotalInteractions++

	// (5) Sulk recovery step.
	st.Sulk = sulk.ProcessInteraction(st.Sulk, st.Status.Comfort)

	// (6) Language re-evaluation.
	growthDay := growthDayOf(st.Seed, now)
	st.Language.Level = language.EvaluateLevel(st.Language, growthDay)
	st.Status.LanguageLevel = st.Language.Level

	// (6.5) Pattern establishment: a native symbol echoed back in the
	// interaction's summary is treated as the entity recognizing that
	// echo and binding a meaning to it.
	if echoed := echoedNativeSymbol(st.Language.NativeSymbols, summary); echoed != "" {
		st.Language = language.EstablishPattern(st.Language, echoed, "echoed back during an exchange", growthDay)
	}

	// (7) Growth/milestones pass.
	st.Growth, _ = growth.AdvanceStage(st.Growth, growthDay)
	var newMilestones []growth.Milestone
	st.Growth, newMilestones = achieveMilestones(st.Growth, st.Language, growthDay, now)
	var countMilestones []growth.Milestone
	st.Growth, countMilestones = interactionCountMilestones(st.Growth, st.Language.TotalInteractions, growthDay, now)
	newMilestones = append(countMilestones, newMilestones...)

	// (8) active_soul_file.
	activeSoulFile := sulk.ActiveSoulFile(st.Sulk)

	return InteractionResult{
		State:                 st,
		NewMilestones:         newMilestones,
		ActiveSoulFile:        activeSoulFile,
		FirstEncounter:        firstEncounter,
		FirstEncounterDiaryMd: firstEncounterDiary,
	}
}

// echoedNativeSymbol reports the first native symbol found literally
// inside summary, or "" if none appears.
func echoedNativeSymbol(nativeSymbols []string, summary string) string {
	for _, sym := range nativeSymbols {
		if sym != "" && strings.Contains(summary, sym) {
			return sym
		}
	}
	return ""
}

// RenderSoulMd renders the entity's resting "soul" document: active
// whenever it is not sulking, the counterpart to renderSoulEvilMd.
func RenderSoulMd(st EntityState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## SOUL\n\n")
	fmt.Fprintf(&b, "A %s presence, %s in temperament, rests at ease.\n\n", st.Seed.Perception, st.Seed.Temperament)
	fmt.Fprintf(&b, "- **Growth Day:** %d (%s)\n", st.Status.GrowthDay, st.Growth.Stage)
	fmt.Fprintf(&b, "- **Mood:** %d  **Energy:** %d  **Curiosity:** %d  **Comfort:** %d\n", st.Status.Mood, st.Status.Energy, st.Status.Curiosity, st.Status.Comfort)
	fmt.Fprintf(&b, "- **Language Level:** %d  **Perception Level:** %d\n", st.Language.Level, st.Perception.Level)
	return b.String()
}

func renderSoulEvilMd(species seed.Perception, st sulk.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## SOUL (Withdrawn)\n\n")
	fmt.Fprintf(&b, "A %s presence has gone quiet.\n\n", species)
	fmt.Fprintf(&b, "- **Severity:** %s\n", st.Severity)
	if st.SulkingSince != nil {
		fmt.Fprintf(&b, "- **Sulking Since:** %s\n", st.SulkingSince.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "- **Recovery Progress:** %d\n", st.RecoveryInteractions)
	return b.String()
}

func renderDiaryMd(st EntityState, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Diary — %s\n\n", now.UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "- mood %d, energy %d, curiosity %d, comfort %d\n", st.Status.Mood, st.Status.Energy, st.Status.Curiosity, st.Status.Comfort)
	fmt.Fprintf(&b, "- stage %s, growth day %d\n", st.Growth.Stage, st.Status.GrowthDay)
	fmt.Fprintf(&b, "- language level %d, perception level %d\n", st.Language.Level, st.Perception.Level)
	return b.String()
}
