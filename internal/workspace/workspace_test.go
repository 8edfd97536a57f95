package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yadori/yadori/internal/engine"
	"github.com/yadori/yadori/internal/seed"
)

func testState(t *testing.T) engine.EntityState {
	t.Helper()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sd := seed.CreateFixedSeed(seed.FixedSeedOverrides{
		Perception:  seed.Chromatic,
		Expression:  "luminous",
		Cognition:   "associative",
		Temperament: seed.CuriousCautious,
		Form:        seed.LightParticles,
		CreatedAt:   now,
	})
	return engine.New(*sd)
}

func TestSaveWritesSeedAndStateJSONAndLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	st := testState(t)

	if err := Save(dir, st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists(dir) {
		t.Fatalf("expected Exists=true after Save")
	}

	for _, name := range []string{"SEED.md", "STATUS.md", "LANGUAGE.md", "MEMORY.md", "FORM.md", "PERCEPTION.md", "DYNAMICS.md", "REVERSALS.md", "COEXIST.md", "growth/milestones.md", "state.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Seed.Hash != st.Seed.Hash {
		t.Fatalf("expected seed hash to round-trip, got %s want %s", got.Seed.Hash, st.Seed.Hash)
	}
	if !got.Growth.Has("first_breath") {
		t.Fatalf("expected first_breath milestone to survive the round trip")
	}
}

func TestSaveNeverOverwritesExistingSeedMd(t *testing.T) {
	dir := t.TempDir()
	st := testState(t)
	if err := Save(dir, st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	original, err := os.ReadFile(filepath.Join(dir, "SEED.md"))
	if err != nil {
		t.Fatalf("reading SEED.md: %v", err)
	}

	mutated := st
	mutated.Seed.Hash = "should-never-reach-seed-md"
	if err := Save(dir, mutated); err != nil {
		t.Fatalf("Save (second): %v", err)
	}

	after, err := os.ReadFile(filepath.Join(dir, "SEED.md"))
	if err != nil {
		t.Fatalf("reading SEED.md after second save: %v", err)
	}
	if string(after) != string(original) {
		t.Fatalf("expected SEED.md to stay immutable after genesis")
	}
}

func TestLoadFallsBackToUnderscoreStateJSON(t *testing.T) {
	dir := t.TempDir()
	st := testState(t)
	if err := Save(dir, st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	primary := filepath.Join(dir, "state.json")
	data, err := os.ReadFile(primary)
	if err != nil {
		t.Fatalf("reading state.json: %v", err)
	}
	if err := os.Remove(primary); err != nil {
		t.Fatalf("removing state.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "__state.json"), data, 0o644); err != nil {
		t.Fatalf("writing __state.json: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load with fallback: %v", err)
	}
	if got.Seed.Hash != st.Seed.Hash {
		t.Fatalf("expected fallback load to recover seed hash")
	}
}

func TestExistsFalseForEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	if Exists(dir) {
		t.Fatalf("expected Exists=false for an empty directory")
	}
}

func TestWriteDiaryUsesDateStampedFilename(t *testing.T) {
	dir := t.TempDir()
	date := time.Date(2026, 4, 15, 3, 0, 0, 0, time.UTC)
	if err := WriteDiary(dir, date, "## Diary\n\nquiet day."); err != nil {
		t.Fatalf("WriteDiary: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "diary", "2026-04-15.md"))
	if err != nil {
		t.Fatalf("expected diary/2026-04-15.md to exist: %v", err)
	}
	if string(data) != "## Diary\n\nquiet day." {
		t.Fatalf("unexpected diary content: %s", data)
	}
}
