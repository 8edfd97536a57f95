// Package encounter generates the one-shot First-Encounter reaction
// fired the instant an entity receives its very first interaction.
package encounter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yadori/yadori/internal/mood"
	"github.com/yadori/yadori/internal/seed"
)

// Reaction is the deterministic (species, temperament) first-encounter
// payload. Only MemoryImprint.Timestamp varies with `now`.
type Reaction struct {
	Expression     string
	InnerExperience string
	StatusEffect   mood.Delta
	MemoryImprint  MemoryImprint
}

// MemoryImprint is the hot-memory entry First-Encounter pushes.
type MemoryImprint struct {
	Timestamp time.Time
	Summary   string
	Mood      int
}

var speciesLexeme = map[seed.Perception]string{
	seed.Chromatic: "color",
	seed.Vibration: "tremor",
	seed.Geometric: "form",
	seed.Thermal:   "warmth",
	seed.Temporal:  "rhythm",
	seed.Chemical:  "element",
}

var temperamentLexeme = map[seed.Temperament]string{
	seed.CuriousCautious:     "carefully",
	seed.BoldImpulsive:       "immediately",
	seed.CalmObservant:       "watch",
	seed.RestlessExploratory: "circle",
}

// buildExpression constructs the temperament-styled symbol stream
// described in §4.9, using the species' self/other glyphs.
func buildExpression(species seed.Perception, temperament seed.Temperament) string {
	self := seed.SelfSymbol(species)
	other := seed.OtherSymbol(species)

	switch temperament {
	case seed.CuriousCautious:
		// spaced single symbols
		return self + "  " + other
	case seed.BoldImpulsive:
		// a burst of >=2 contiguous self symbols
		return self + self + other
	case seed.CalmObservant:
		// a run of 3+ whitespace between symbols
		return self + "   " + other
	case seed.RestlessExploratory:
		// the other symbol repeated >=2 times around the self symbol
		return other + self + other
	default:
		return self
	}
}

// GenerateFirstEncounter is fully deterministic in (species, temperament)
// for Expression, InnerExperience, and StatusEffect; only the memory
// imprint's timestamp depends on `now`.
func GenerateFirstEncounter(species seed.Perception, temperament seed.Temperament, now time.Time) Reaction {
	expression := buildExpression(species, temperament)

	sLex := speciesLexeme[species]
	tLex := temperamentLexeme[temperament]
	inner := fmt.Sprintf("a %s, %s", sLex, tLex)

	effect := mood.Delta{Mood: 6, Energy: 4, Curiosity: 8}
	switch temperament {
	case seed.BoldImpulsive:
		effect.Mood = 14
		effect.Energy = 12
	case seed.RestlessExploratory:
		effect.Curiosity = 16
	}

	summary := fmt.Sprintf("[FIRST ENCOUNTER] a %s presence was noticed for the first time", sLex)

	return Reaction{
		Expression:      expression,
		InnerExperience: inner,
		StatusEffect:    effect,
		MemoryImprint: MemoryImprint{
			Timestamp: now,
			Summary:   summary,
			Mood:      60,
		},
	}
}

// FormatFirstEncounterDiary renders the markdown block for a reaction.
func FormatFirstEncounterDiary(r Reaction, species seed.Perception, temperament seed.Temperament, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## First Encounter — %s\n\n", now.UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "**Species:** %s\n", species)
	fmt.Fprintf(&b, "**Temperament:** %s\n\n", temperament)
	fmt.Fprintf(&b, "**Expression:** `%s`\n\n", r.Expression)
	fmt.Fprintf(&b, "**Inner experience:** %s\n\n", r.InnerExperience)
	fmt.Fprintf(&b, "- mood %+d\n", r.StatusEffect.Mood)
	fmt.Fprintf(&b, "- energy %+d\n", r.StatusEffect.Energy)
	fmt.Fprintf(&b, "- curiosity %+d\n\n", r.StatusEffect.Curiosity)
	b.WriteString("This is the first awareness of another.\n")
	return b.String()
}
