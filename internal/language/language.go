// Package language implements level progression and symbol/pattern
// acquisition.
package language

import (
	"github.com/yadori/yadori/internal/seed"
)

// Pattern is an acquired (symbol, meaning) pair.
type Pattern struct {
	Symbol        string `json:"symbol"`
	Meaning       string `json:"meaning"`
	EstablishedDay int   `json:"established_day"`
	UsageCount    int    `json:"usage_count"`
}

// State is the language sub-state.
type State struct {
	Level             int       `json:"level"`
	TotalInteractions uint64    `json:"total_interactions"`
	NativeSymbols     []string  `json:"native_symbols"`
	Patterns          []Pattern `json:"patterns"`
}

// New returns the initial language state for a species, seeding
// NativeSymbols from the species table at genesis.
func New(species seed.Perception) State {
	return State{
		Level:         0,
		NativeSymbols: seed.NativeSymbols(species),
	}
}

// levelRequirement is one row of the §4.5 progression table.
type levelRequirement struct {
	minDay           int
	minInteractions  uint64
}

var requirements = map[int]levelRequirement{
	1: {minDay: 7, minInteractions: 30},
	2: {minDay: 21, minInteractions: 100},
	3: {minDay: 45, minInteractions: 250},
	4: {minDay: 90, minInteractions: 500},
}

// EvaluateLevel is a monotone step function: it never returns a level
// lower than lang.Level, and advances one or more ranks if growthDay
// and TotalInteractions both clear the next rank's thresholds.
func EvaluateLevel(lang State, growthDay int) int {
	level := lang.Level
	for level < 4 {
		req, ok := requirements[level+1]
		if !ok {
			break
		}
		if growthDay >= req.minDay && lang.TotalInteractions >= req.minInteractions {
			level++
			continue
		}
		break
	}
	return level
}

// EstablishPattern creates a new Pattern or increments UsageCount on an
// existing one for the same symbol.
func EstablishPattern(lang State, symbol, meaning string, day int) State {
	for i := range lang.Patterns {
		if lang.Patterns[i].Symbol == symbol {
			lang.Patterns[i].UsageCount++
			return lang
		}
	}
	patterns := make([]Pattern, len(lang.Patterns), len(lang.Patterns)+1)
	copy(patterns, lang.Patterns)
	patterns = append(patterns, Pattern{
		Symbol:         symbol,
		Meaning:        meaning,
		EstablishedDay: day,
		UsageCount:     1,
	})
	lang.Patterns = patterns
	return lang
}

// MilestoneID returns the deterministic milestone id for a level
// transition, e.g. "language_level_2".
func MilestoneID(level int) string {
	switch level {
	case 1:
		return "language_level_1"
	case 2:
		return "language_level_2"
	case 3:
		return "language_level_3"
	case 4:
		return "language_level_4"
	default:
		return ""
	}
}
