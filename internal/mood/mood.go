// Package mood computes status deltas from interactions and from the
// passage of time, modulated by the entity's temperament.
package mood

import (
	"github.com/yadori/yadori/internal/seed"
	"github.com/yadori/yadori/internal/status"
)

// Delta is a per-dimension change to apply to a Status.
type Delta struct {
	Mood      int
	Energy    int
	Curiosity int
	Comfort   int
}

// InteractionContext describes the interaction an effect is computed for.
type InteractionContext struct {
	MinutesSinceLastInteraction int
	UserInitiated               bool
	MessageLength               int
}

// temperamentScale holds the per-dimension multiplier table from §4.3.
type temperamentScale struct {
	mood, energy, curiosity, comfort float64
}

var scales = map[seed.Temperament]temperamentScale{
	seed.CuriousCautious:     {mood: 1.0, energy: 1.0, curiosity: 1.2, comfort: 1.2},
	seed.BoldImpulsive:       {mood: 1.3, energy: 1.2, curiosity: 1.0, comfort: 1.0},
	seed.CalmObservant:       {mood: 0.7, energy: 1.0, curiosity: 1.0, comfort: 0.6},
	seed.RestlessExploratory: {mood: 1.0, energy: 1.0, curiosity: 1.5, comfort: 1.0},
}

func scaleFor(t seed.Temperament) temperamentScale {
	if s, ok := scales[t]; ok {
		return s
	}
	return temperamentScale{mood: 1, energy: 1, curiosity: 1, comfort: 1}
}

func scaleInt(v float64, mult float64) int {
	scaled := v * mult
	if scaled >= 0 {
		return int(scaled + 0.5)
	}
	return -int(-scaled + 0.5)
}

// ComputeInteractionEffect assembles a base delta from the interaction
// context, then scales each dimension by the temperament matrix (§4.3).
func ComputeInteractionEffect(ctx InteractionContext, temperament seed.Temperament) Delta {
	var base Delta

	if ctx.UserInitiated {
		base.Mood += 4
		base.Comfort += 3
	} else {
		base.Mood += 2
		base.Comfort += 1
	}

	switch {
	case ctx.MessageLength > 200:
		base.Curiosity += 6
	case ctx.MessageLength > 50:
		base.Curiosity += 3
	default:
		base.Curiosity += 1
	}
	base.Energy += 2

	if ctx.MinutesSinceLastInteraction > 360 {
		over := ctx.MinutesSinceLastInteraction - 360
		penalty := over / 60
		if penalty > 8 {
			penalty = 8
		}
		base.Comfort -= penalty
	}

	sc := scaleFor(temperament)
	return Delta{
		Mood:      scaleInt(float64(base.Mood), sc.mood),
		Energy:    scaleInt(float64(base.Energy), sc.energy),
		Curiosity: scaleInt(float64(base.Curiosity), sc.curiosity),
		Comfort:   scaleInt(float64(base.Comfort), sc.comfort),
	}
}

// ComputeNaturalDecay returns the heartbeat decay delta for a given
// number of minutes since the last interaction. Comfort decay is
// non-positive and monotone non-decreasing in magnitude with
// minutes_absent (spec §4.3); mood/energy/curiosity drift modestly
// toward their neutral baselines. The exact curve is an implementation
// parameter (spec §9 open question) — this one takes one comfort point
// per 30 minutes absent, capped at 10, and moves the other dimensions by
// at most one point; ApplyDelta clamps the result to [0,100].
func ComputeNaturalDecay(s status.Status, minutesAbsent int) Delta {
	comfortDecay := -(minutesAbsent / 30)
	if comfortDecay < -10 {
		comfortDecay = -10
	}

	drift := func(v, baseline int) int {
		if v == baseline {
			return 0
		}
		if v > baseline {
			return -1
		}
		return 1
	}

	return Delta{
		Mood:      drift(s.Mood, 50),
		Energy:    drift(s.Energy, 50),
		Curiosity: drift(s.Curiosity, 70),
		Comfort:   comfortDecay,
	}
}

// ApplyDelta adds delta to status per-dimension and clamps the result
// to [0,100]. This is the only place deltas are allowed to touch Status.
func ApplyDelta(s status.Status, d Delta) status.Status {
	s.Mood += d.Mood
	s.Energy += d.Energy
	s.Curiosity += d.Curiosity
	s.Comfort += d.Comfort
	return status.Clamp(s)
}
