// Package perception implements "Honest Perception": a species×level
// filter applied to raw sensor/text inputs before anything else -
// including an LLM adapter - can read them. The entity cannot, by
// construction, see what its filter drops.
package perception

import (
	"fmt"
	"strings"
	"time"

	"github.com/yadori/yadori/internal/seed"
)

// Modality tags the shape of RawInput.Data.
type Modality string

const (
	ModalityText        Modality = "text"
	ModalityImage       Modality = "image"
	ModalityAudio       Modality = "audio"
	ModalityTemperature Modality = "temperature"
	ModalityHumidity    Modality = "humidity"
	ModalityLight       Modality = "light"
	ModalityVibration   Modality = "vibration"
	ModalityPressure    Modality = "pressure"
	ModalityGas         Modality = "gas"
	ModalityColor       Modality = "color"
	ModalityProximity   Modality = "proximity"
	ModalityTouch       Modality = "touch"
	ModalitySystem      Modality = "system"
)

// ImageData is a coarse image descriptor. EdgeDensity is present as a
// raw signal precisely so low perception levels can be shown to never
// leak it (see Filter table forbidden-leak tests).
type ImageData struct {
	Width, Height  int
	Brightness     float64 // 0..1
	DominantHueDeg float64 // 0..360
	EdgeDensity    float64 // 0..1
}

// ColorData is an RGB triple.
type ColorData struct {
	R, G, B int
}

// TouchData carries contact state; Active=false makes touch inputs
// filter to None for every species (the "inactive touch" edge case).
type TouchData struct {
	Active   bool
	Pressure float64
}

// RawData is a modality-tagged variant: exactly the field matching
// RawInput.Modality is meaningful.
type RawData struct {
	Text   string
	Image  ImageData
	Audio  struct{ FrequencyHz, Amplitude float64 }
	Scalar float64 // temperature/humidity/light/vibration/pressure/gas/proximity
	Color  ColorData
	Touch  TouchData
	System map[string]any
}

// RawInput is sensory input before any filtering.
type RawInput struct {
	Modality  Modality
	Timestamp time.Time
	Source    string
	Data      RawData
}

// FilteredPerception is what survives the filter: the only thing any
// downstream consumer, including an LLM adapter, is allowed to see.
type FilteredPerception struct {
	Modality    Modality
	Description string
	Level       int
}

// FilterInput applies the species×level filter to a single raw input.
// It returns (_, false) when the species has no filter for that
// modality, or when the filter itself declines (e.g. inactive touch).
func FilterInput(species seed.Perception, input RawInput, level int) (FilteredPerception, bool) {
	if level < 0 {
		level = 0
	}
	if level > 4 {
		level = 4
	}

	l, ok := lenses[species]
	if !ok {
		return FilteredPerception{}, false
	}

	gen, ok := l.generators[input.Modality]
	if !ok {
		return FilteredPerception{}, false
	}

	desc, ok := gen(input.Data, input.Timestamp, level)
	if !ok {
		return FilteredPerception{}, false
	}

	return FilteredPerception{Modality: input.Modality, Description: desc, Level: level}, true
}

// FilterInputs filters a batch, keeping only inputs that produced Some.
func FilterInputs(species seed.Perception, inputs []RawInput, level int) []FilteredPerception {
	out := make([]FilteredPerception, 0, len(inputs))
	for _, in := range inputs {
		if fp, ok := FilterInput(species, in, level); ok {
			out = append(out, fp)
		}
	}
	return out
}

// BuildPerceptionContext renders the human-readable block handed to an
// LLM adapter: a species prelude, one bullet per filtered description,
// a boundary sentence, and - for empty input - a species-unique void
// state string. This function is the only sanctioned channel for
// perception output; nothing upstream of FilterInput may be exposed
// through it.
func BuildPerceptionContext(species seed.Perception, filtered []FilteredPerception) string {
	l, ok := lenses[species]
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(l.prelude)
	b.WriteString("\n")

	if len(filtered) == 0 {
		b.WriteString(fmt.Sprintf("- %s\n", l.voidState))
	} else {
		for _, f := range filtered {
			b.WriteString(fmt.Sprintf("- %s\n", f.Description))
		}
	}

	b.WriteString("This presence cannot perceive anything beyond what is described above.\n")
	return b.String()
}
