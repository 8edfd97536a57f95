// Package form evolves the entity's physical manifestation toward a
// stage target and tracks the one-shot self-image awakening.
package form

import (
	"github.com/yadori/yadori/internal/growth"
	"github.com/yadori/yadori/internal/seed"
	"github.com/yadori/yadori/internal/status"
)

// State is the form sub-state.
type State struct {
	BaseForm   seed.Form `json:"base_form"`
	Density    int       `json:"density"`
	Complexity int       `json:"complexity"`
	Stability  int       `json:"stability"`
	Awareness  bool      `json:"awareness"`
}

// New returns the initial form state, seeded from the species' base form.
func New(base seed.Form) State {
	t := target(growth.Newborn)
	return State{
		BaseForm:   base,
		Density:    t.density,
		Complexity: t.complexity,
		Stability:  t.stability,
	}
}

type stageTarget struct {
	density, complexity, stability int
}

// targets is the stage->target table from §4.7.
var targets = map[growth.Stage]stageTarget{
	growth.Newborn:    {density: 10, complexity: 5, stability: 20},
	growth.Infant:     {density: 25, complexity: 15, stability: 35},
	growth.Child:      {density: 45, complexity: 35, stability: 50},
	growth.Adolescent: {density: 65, complexity: 60, stability: 55},
	growth.Mature:     {density: 80, complexity: 80, stability: 75},
}

func target(s growth.Stage) stageTarget {
	if t, ok := targets[s]; ok {
		return t
	}
	return targets[growth.Newborn]
}

const driftRate = 0.08

func clamp100(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// drift moves current driftRate of the way toward targetVal, rounded,
// and by at least one unit while any gap remains.
func drift(current, targetVal int) int {
	gap := float64(targetVal - current)
	step := gap * driftRate
	if step >= 0 {
		d := int(step + 0.5)
		if d == 0 && gap > 0 {
			d = 1
		}
		return current + d
	}
	d := int(step - 0.5)
	if d == 0 {
		d = -1
	}
	return current + d
}

// Evolve drifts density/complexity/stability toward the stage target at
// drift-rate 0.08 of the gap, then modulates by status, per §4.7.
func Evolve(f State, stage growth.Stage, s status.Status) State {
	t := target(stage)

	f.Density = drift(f.Density, t.density)
	f.Complexity = drift(f.Complexity, t.complexity)
	f.Stability = drift(f.Stability, t.stability)

	if s.Mood >= 70 {
		f.Stability += 2
	} else if s.Mood < 30 {
		f.Stability -= 3
	}

	if s.Energy >= 70 {
		f.Density += 1
	}

	if s.Curiosity >= 70 {
		f.Complexity += 1
	}

	f.Density = clamp100(f.Density)
	f.Complexity = clamp100(f.Complexity)
	f.Stability = clamp100(f.Stability)

	return f
}

// AwakenSelfAwareness sets Awareness, which is monotone true: once set,
// nothing in this package ever clears it.
func AwakenSelfAwareness(f State) State {
	f.Awareness = true
	return f
}

// ShouldAwaken is a deterministic readiness check: self-awareness can
// only awaken once density, complexity, and stability have each reached
// at least their adolescent target, mirroring the identity-formation
// arc §4.10.1's identity_strength signal reads off of this state.
func ShouldAwaken(f State) bool {
	if f.Awareness {
		return false
	}
	adolescent := target(growth.Adolescent)
	return f.Density >= adolescent.density && f.Complexity >= adolescent.complexity && f.Stability >= adolescent.stability
}
