package perception

import (
	"strings"
	"testing"
	"time"

	"github.com/yadori/yadori/internal/seed"
)

func nonDegenerateImage() RawInput {
	return RawInput{
		Modality:  ModalityImage,
		Timestamp: time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC),
		Data: RawData{
			Image: ImageData{Width: 800, Height: 600, Brightness: 0.5, DominantHueDeg: 90, EdgeDensity: 0.4},
		},
	}
}

func TestCrossSpeciesDistinctnessImage(t *testing.T) {
	for level := 0; level <= 4; level++ {
		seen := map[string]seed.Perception{}
		for _, sp := range seed.AllPerceptions {
			fp, ok := FilterInput(sp, nonDegenerateImage(), level)
			if !ok {
				t.Fatalf("species %s should filter image input", sp)
			}
			if other, dup := seen[fp.Description]; dup {
				t.Fatalf("level %d: species %s and %s produced identical image descriptions: %q", level, sp, other, fp.Description)
			}
			seen[fp.Description] = sp
		}
	}
}

func TestCrossLevelMonotonicityImage(t *testing.T) {
	for _, sp := range seed.AllPerceptions {
		var prev string
		seenLevels := map[string]int{}
		for level := 0; level <= 4; level++ {
			fp, ok := FilterInput(sp, nonDegenerateImage(), level)
			if !ok {
				t.Fatalf("species %s should filter image input", sp)
			}
			if len(fp.Description) < len(prev) {
				t.Errorf("species %s level %d: description shrank from level %d", sp, level, level-1)
			}
			if other, dup := seenLevels[fp.Description]; dup {
				t.Errorf("species %s: level %d and %d produced identical descriptions", sp, level, other)
			}
			seenLevels[fp.Description] = level
			prev = fp.Description
		}
	}
}

func TestChromaticImageLevel0ForbidsSpatialWords(t *testing.T) {
	fp, ok := FilterInput(seed.Chromatic, nonDegenerateImage(), 0)
	if !ok {
		t.Fatal("expected chromatic to filter image input")
	}
	forbidden := []string{"edge", "angle", "quadrant", "spatial", "region", "colors:"}
	for _, f := range forbidden {
		if strings.Contains(strings.ToLower(fp.Description), f) {
			t.Errorf("chromatic image level0 description contains forbidden token %q: %q", f, fp.Description)
		}
	}
}

func TestChromaticTextLevel0NeverLeaksOriginalWords(t *testing.T) {
	original := "The unmistakable zephyr danced across galvanized rooftops"
	input := RawInput{Modality: ModalityText, Timestamp: time.Now(), Data: RawData{Text: original}}
	fp, ok := FilterInput(seed.Chromatic, input, 0)
	if !ok {
		t.Fatal("expected chromatic to filter text input")
	}
	for _, word := range strings.Fields(original) {
		if strings.Contains(fp.Description, word) {
			t.Errorf("chromatic text level0 leaked original word %q in %q", word, fp.Description)
		}
	}
}

func TestTemporalTextLevel0IsOnlyATimestamp(t *testing.T) {
	ts := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	input := RawInput{Modality: ModalityText, Timestamp: ts, Data: RawData{Text: "anything at all, really"}}
	fp, ok := FilterInput(seed.Temporal, input, 0)
	if !ok {
		t.Fatal("expected temporal to filter text input")
	}
	if fp.Description != ts.UTC().Format(time.RFC3339) {
		t.Errorf("expected level0 temporal text description to be exactly the timestamp, got %q", fp.Description)
	}
}

func TestInactiveTouchFiltersToNone(t *testing.T) {
	input := RawInput{Modality: ModalityTouch, Data: RawData{Touch: TouchData{Active: false}}}
	if _, ok := FilterInput(seed.Thermal, input, 2); ok {
		t.Fatal("expected inactive touch to filter to None even for a species with a touch filter")
	}
}

func TestSpeciesWithoutModalityFiltersToNone(t *testing.T) {
	input := RawInput{Modality: ModalityTouch, Data: RawData{Touch: TouchData{Active: true, Pressure: 0.5}}}
	if _, ok := FilterInput(seed.Chromatic, input, 2); ok {
		t.Fatal("chromatic has no touch filter and should return None")
	}
}

func TestFilterInputsKeepsOnlySome(t *testing.T) {
	inputs := []RawInput{
		nonDegenerateImage(),
		{Modality: ModalityTouch, Data: RawData{Touch: TouchData{Active: false}}},
	}
	out := FilterInputs(seed.Chromatic, inputs, 2)
	if len(out) != 1 {
		t.Fatalf("expected exactly 1 surviving filtered input, got %d", len(out))
	}
}

func TestBuildPerceptionContextVoidStateUniquePerSpecies(t *testing.T) {
	seen := map[string]bool{}
	for _, sp := range seed.AllPerceptions {
		ctx := BuildPerceptionContext(sp, nil)
		if seen[ctx] {
			t.Errorf("species %s produced a void-state context identical to another species", sp)
		}
		seen[ctx] = true
		if !strings.Contains(ctx, "cannot perceive anything beyond") {
			t.Errorf("species %s context missing boundary sentence", sp)
		}
	}
}

func TestPerceptionGrowthNeverDecreases(t *testing.T) {
	g := Growth{}
	g = Observe(g, 5, 3, 10)
	level := g.Level
	g = Observe(g, 0, 0, 0)
	if g.Level < level {
		t.Fatalf("perception level must never decrease")
	}
}
