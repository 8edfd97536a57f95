// Package workspace persists an engine.EntityState to the authoritative
// on-disk layout (§6): state.json is the canonical machine state every
// load re-derives from; the markdown twins exist for a human or another
// collaborator process to read without touching JSON.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yadori/yadori/internal/engine"
	"github.com/yadori/yadori/internal/serialize"
)

// statePrimary and stateFallback are state.json's two accepted names:
// Load falls back to __state.json when state.json is missing, and Save
// writes only state.json and removes any leftover fallback.
const (
	statePrimary  = "state.json"
	stateFallback = "__state.json"
)

// Save writes state.json and every markdown twin into dir, creating
// dir and its growth subdirectory as needed. SEED.md is
// only written the first time (§3: immutable after genesis) — Save
// never overwrites an existing SEED.md.
func Save(dir string, st engine.EntityState) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("workspace: creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("workspace: marshaling state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, statePrimary), data, 0o644); err != nil {
		return fmt.Errorf("workspace: writing %s: %w", statePrimary, err)
	}
	os.Remove(filepath.Join(dir, stateFallback))

	seedPath := filepath.Join(dir, "SEED.md")
	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		if err := os.WriteFile(seedPath, []byte(serialize.FormatSeedMd(st.Seed)), 0o644); err != nil {
			return fmt.Errorf("workspace: writing SEED.md: %w", err)
		}
	}

	files := map[string]string{
		"STATUS.md":     serialize.FormatStatusMd(st.Status),
		"LANGUAGE.md":   serialize.FormatLanguageMd(st.Language),
		"MEMORY.md":     serialize.FormatMemoryMd(st.Memory),
		"growth/milestones.md": serialize.FormatMilestonesMd(st.Growth),
		"FORM.md":       serialize.FormatFormMd(st.Form),
		"PERCEPTION.md": serialize.FormatPerceptionMd(st.Perception),
		"DYNAMICS.md":   serialize.FormatDynamicsMd(st.Asymmetry),
		"REVERSALS.md":  serialize.FormatReversalMd(st.Reversal),
		"COEXIST.md":    serialize.FormatCoexistMd(st.Coexist),
	}
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("workspace: creating directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return fmt.Errorf("workspace: writing %s: %w", rel, err)
		}
	}
	return nil
}

// Load reconstructs an EntityState from state.json, falling back to
// __state.json if the primary is missing (§6: "engine... re-derives
// all semantic state from state.json on load").
func Load(dir string) (engine.EntityState, error) {
	var st engine.EntityState

	data, err := os.ReadFile(filepath.Join(dir, statePrimary))
	if err != nil {
		if !os.IsNotExist(err) {
			return st, fmt.Errorf("workspace: reading %s: %w", statePrimary, err)
		}
		data, err = os.ReadFile(filepath.Join(dir, stateFallback))
		if err != nil {
			return st, fmt.Errorf("workspace: reading %s: %w", stateFallback, err)
		}
	}

	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("workspace: parsing state.json: %w", err)
	}
	return st, nil
}

// Exists reports whether dir already holds an entity (has a SEED.md),
// the same "One Body, One Soul" test internal/backup applies on restore.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "SEED.md"))
	return err == nil
}

// WriteDiary writes one day's diary entry to diary/YYYY-MM-DD.md.
func WriteDiary(dir string, date time.Time, content string) error {
	diaryDir := filepath.Join(dir, "diary")
	if err := os.MkdirAll(diaryDir, 0o755); err != nil {
		return fmt.Errorf("workspace: creating diary directory: %w", err)
	}
	name := date.UTC().Format("2006-01-02") + ".md"
	if err := os.WriteFile(filepath.Join(diaryDir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("workspace: writing diary/%s: %w", name, err)
	}
	return nil
}

// WriteSoulEvil writes SOUL_EVIL.md's rendered markdown, the sulking
// counterpart of WriteSoul. An existing SOUL.md is left in place.
func WriteSoulEvil(dir, md string) error {
	if err := os.WriteFile(filepath.Join(dir, "SOUL_EVIL.md"), []byte(md), 0o644); err != nil {
		return fmt.Errorf("workspace: writing SOUL_EVIL.md: %w", err)
	}
	return nil
}

// WriteSoul writes SOUL.md's rendered markdown.
func WriteSoul(dir, md string) error {
	if err := os.WriteFile(filepath.Join(dir, "SOUL.md"), []byte(md), 0o644); err != nil {
		return fmt.Errorf("workspace: writing SOUL.md: %w", err)
	}
	return nil
}
