package perception

import (
	"fmt"
	"strings"
	"time"

	"github.com/yadori/yadori/internal/seed"
)

// generatorFunc produces a level-scaled description, or declines (ok=false).
type generatorFunc func(data RawData, ts time.Time, level int) (string, bool)

type lens struct {
	prelude    string
	voidState  string
	generators map[Modality]generatorFunc
}

var lenses = map[seed.Perception]lens{
	seed.Chromatic: chromaticLens(),
	seed.Vibration: vibrationLens(),
	seed.Geometric: geometricLens(),
	seed.Thermal:   thermalLens(),
	seed.Temporal:  temporalLens(),
	seed.Chemical:  chemicalLens(),
}

// cumulative joins facts[0..level] - this is what makes every filter
// level-monotone by construction: each added level only ever appends,
// never rewrites, a fact, so length(L+1) >= length(L) and the level-L
// string is always a strict prefix-join of level L+1's.
func cumulative(facts [5]string, level int) string {
	if level < 0 {
		level = 0
	}
	if level > 4 {
		level = 4
	}
	parts := make([]string, 0, level+1)
	for i := 0; i <= level; i++ {
		if facts[i] != "" {
			parts = append(parts, facts[i])
		}
	}
	return strings.Join(parts, "; ")
}

// scalarBucket quantizes an assumed-0..100-normalized sensor reading
// into 5 intensity bands. Collaborators are expected to normalize raw
// sensor units (°C, ppm, hPa, lux, cm, ...) onto this scale before
// handing RawInput to the core - the core itself never knows the unit.
func scalarBucket(v float64) int {
	switch {
	case v < 20:
		return 0
	case v < 40:
		return 1
	case v < 60:
		return 2
	case v < 80:
		return 3
	default:
		return 4
	}
}

var intensityWords = [5]string{"faint", "mild", "moderate", "strong", "intense"}

// genericScalar builds a 5-species-flavoured generator for any scalar
// modality (temperature, humidity, light, vibration, pressure, gas,
// proximity) sharing the same bucketing/cumulative-fact shape.
func genericScalar(sense string, species string) generatorFunc {
	return func(data RawData, ts time.Time, level int) (string, bool) {
		b := scalarBucket(data.Scalar)
		facts := [5]string{
			fmt.Sprintf("a %s registers", sense),
			fmt.Sprintf("a %s %s presence", intensityWords[b], sense),
			fmt.Sprintf("felt through %s awareness", species),
			fmt.Sprintf("holding at band %d of 5", b+1),
			fmt.Sprintf("steady within the %s field", species),
		}
		return cumulative(facts, level), true
	}
}

func textStatsFacts(species string, text string) [5]string {
	shape := shapeOf(text)

	length := "a brief exchange"
	if shape.words > 40 {
		length = "a long outpouring"
	} else if shape.words > 12 {
		length = "a measured exchange"
	}
	tone := "an even tone"
	if shape.exclaim {
		tone = "a charged tone"
	} else if shape.question {
		tone = "a searching tone"
	}
	return [5]string{
		fmt.Sprintf("a ripple of meaning arrives, %s", species),
		length,
		tone,
		fmt.Sprintf("carried across %d turns of phrase", shape.sentences),
		"rendered only as shape, never as word",
	}
}

func imageStatsFacts(species string, img ImageData) [5]string {
	hueBand := "a neutral cast"
	switch {
	case img.DominantHueDeg < 60 || img.DominantHueDeg >= 300:
		hueBand = "a warm cast"
	case img.DominantHueDeg < 180:
		hueBand = "a cool cast"
	}
	brightness := "evenly lit"
	if img.Brightness > 0.66 {
		brightness = "brightly lit"
	} else if img.Brightness < 0.33 {
		brightness = "dimly lit"
	}
	return [5]string{
		fmt.Sprintf("a wash of light arrives, %s", species),
		hueBand,
		brightness,
		"layered tones shifting gently across the field",
		"subtle gradients softening toward the margins",
	}
}

func chromaticLens() lens {
	text := func(data RawData, ts time.Time, level int) (string, bool) {
		return cumulative(textStatsFacts("a bloom of color", data.Text), level), true
	}
	image := func(data RawData, ts time.Time, level int) (string, bool) {
		return cumulative(imageStatsFacts("chromatically", data.Image), level), true
	}
	return lens{
		prelude:   "You perceive through color and light alone.",
		voidState: "darkness, unbroken",
		generators: map[Modality]generatorFunc{
			ModalityText:  text,
			ModalityImage: image,
			ModalityColor: func(data RawData, ts time.Time, level int) (string, bool) {
				facts := [5]string{
					"a hue arrives",
					hueName(data.Color),
					"saturating gently",
					"settling into the field of view",
					fmt.Sprintf("rgb balance near (%d,%d,%d)", bucketColorComponent(data.Color.R), bucketColorComponent(data.Color.G), bucketColorComponent(data.Color.B)),
				}
				return cumulative(facts, level), true
			},
			ModalityLight:  genericScalar("luminous", "chromatic"),
			ModalitySystem: systemGenerator("chromatic"),
		},
	}
}

func hueName(c ColorData) string {
	switch {
	case c.R >= c.G && c.R >= c.B:
		return "leaning warm, reddish"
	case c.G >= c.R && c.G >= c.B:
		return "leaning verdant"
	default:
		return "leaning cool, bluish"
	}
}

func bucketColorComponent(v int) int {
	return (v / 32) * 32
}

func vibrationLens() lens {
	text := func(data RawData, ts time.Time, level int) (string, bool) {
		return cumulative(textStatsFacts("a tremor of meaning", data.Text), level), true
	}
	image := func(data RawData, ts time.Time, level int) (string, bool) {
		return cumulative(imageStatsFacts("through resonant texture", data.Image), level), true
	}
	return lens{
		prelude:   "You perceive through pulse and resonance.",
		voidState: "stillness, no pulse",
		generators: map[Modality]generatorFunc{
			ModalityText:      text,
			ModalityImage:     image,
			ModalityVibration: genericScalar("tremor", "resonant"),
			ModalityAudio: func(data RawData, ts time.Time, level int) (string, bool) {
				b := scalarBucket(data.Audio.Amplitude * 100)
				facts := [5]string{
					"a resonance arrives",
					fmt.Sprintf("a %s hum", intensityWords[b]),
					"carrying rhythm, not words",
					fmt.Sprintf("pitched in band %d of 5", b+1),
					"fading into the quiet after",
				}
				return cumulative(facts, level), true
			},
			ModalitySystem: systemGenerator("resonant"),
		},
	}
}

func geometricLens() lens {
	text := func(data RawData, ts time.Time, level int) (string, bool) {
		return cumulative(textStatsFacts("a pattern of meaning", data.Text), level), true
	}
	image := func(data RawData, ts time.Time, level int) (string, bool) {
		facts := imageStatsFacts("as form and proportion", data.Image)
		// geometric species reads structure, not color - swap the hue clause
		facts[1] = "composed of balanced proportion"
		return cumulative(facts, level), true
	}
	return lens{
		prelude:   "You perceive through form and proportion.",
		voidState: "a blank plane, no form",
		generators: map[Modality]generatorFunc{
			ModalityText:      text,
			ModalityImage:     image,
			ModalityPressure:  genericScalar("pressure", "structural"),
			ModalityProximity: genericScalar("distance", "spatial"),
			ModalitySystem:    systemGenerator("structural"),
		},
	}
}

func thermalLens() lens {
	text := func(data RawData, ts time.Time, level int) (string, bool) {
		return cumulative(textStatsFacts("a warmth of meaning", data.Text), level), true
	}
	image := func(data RawData, ts time.Time, level int) (string, bool) {
		facts := imageStatsFacts("as gradients of warmth", data.Image)
		facts[1] = "radiating a gentle warmth"
		return cumulative(facts, level), true
	}
	return lens{
		prelude:   "You perceive through warmth and its absence.",
		voidState: "cold, no warmth anywhere",
		generators: map[Modality]generatorFunc{
			ModalityText:        text,
			ModalityImage:       image,
			ModalityTemperature: genericScalar("warmth", "thermal"),
			ModalityTouch: func(data RawData, ts time.Time, level int) (string, bool) {
				if !data.Touch.Active {
					return "", false
				}
				b := scalarBucket(data.Touch.Pressure * 100)
				facts := [5]string{
					"contact arrives",
					fmt.Sprintf("a %s touch", intensityWords[b]),
					"warming where it lands",
					fmt.Sprintf("pressed in band %d of 5", b+1),
					"lingering after contact ends",
				}
				return cumulative(facts, level), true
			},
			ModalitySystem: systemGenerator("thermal"),
		},
	}
}

func temporalLens() lens {
	text := func(data RawData, ts time.Time, level int) (string, bool) {
		stamp := ts.UTC().Format(time.RFC3339)
		if level == 0 {
			return stamp, true
		}
		facts := [5]string{
			stamp,
			"a moment among moments",
			dayPhrase(ts),
			timeOfDayPhrase(ts),
			"one tick in an unbroken sequence",
		}
		return cumulative(facts, level), true
	}
	image := func(data RawData, ts time.Time, level int) (string, bool) {
		facts := [5]string{
			fmt.Sprintf("a moment is marked at %s", ts.UTC().Format(time.RFC3339)),
			"a single frame in the sequence",
			"neither first nor last",
			dayPhrase(ts),
			"already receding into the past",
		}
		return cumulative(facts, level), true
	}
	return lens{
		prelude:   "You perceive through sequence and duration alone.",
		voidState: "no moment marked, void",
		generators: map[Modality]generatorFunc{
			ModalityText:   text,
			ModalityImage:  image,
			ModalitySystem: systemGenerator("temporal"),
		},
	}
}

func dayPhrase(ts time.Time) string {
	return fmt.Sprintf("on a %s", ts.UTC().Weekday())
}

func timeOfDayPhrase(ts time.Time) string {
	h := ts.UTC().Hour()
	switch {
	case h < 6:
		return "deep in the night hours"
	case h < 12:
		return "in the morning hours"
	case h < 18:
		return "in the afternoon hours"
	default:
		return "in the evening hours"
	}
}

func chemicalLens() lens {
	text := func(data RawData, ts time.Time, level int) (string, bool) {
		return cumulative(textStatsFacts("a reaction to meaning", data.Text), level), true
	}
	image := func(data RawData, ts time.Time, level int) (string, bool) {
		facts := imageStatsFacts("as a mixture of signals", data.Image)
		facts[1] = "mixing into something new"
		return cumulative(facts, level), true
	}
	return lens{
		prelude:   "You perceive through reaction and composition.",
		voidState: "inert, nothing to react to",
		generators: map[Modality]generatorFunc{
			ModalityText:     text,
			ModalityImage:    image,
			ModalityGas:      genericScalar("compound", "reactive"),
			ModalityHumidity: genericScalar("moisture", "reactive"),
			ModalitySystem:   systemGenerator("reactive"),
		},
	}
}

// systemGenerator handles the ModalitySystem channel: a species-voiced
// abstraction of host/diagnostic signals, never the raw map contents.
func systemGenerator(species string) generatorFunc {
	return func(data RawData, ts time.Time, level int) (string, bool) {
		n := len(data.System)
		facts := [5]string{
			fmt.Sprintf("the %s substrate stirs", species),
			fmt.Sprintf("%d undercurrents felt, not named", n),
			"a background hum of upkeep",
			"nothing urgent rising above the rest",
			"the substrate settles again",
		}
		return cumulative(facts, level), true
	}
}
