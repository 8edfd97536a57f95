// Package backup implements the semantic model of §4.11: bundling a
// workspace's files into a checksummed Manifest, validating a bundle
// against the current host, and restoring it into an empty workspace.
// The core never touches a filesystem directly except through the
// os.ReadDir/os.ReadFile calls CreateBackup and RestoreBackup make on
// the collaborator's behalf — everything else here is pure.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Error kinds from spec §7. These are sentinel errors, wrapped with
// fmt.Errorf("...: %w", ...) at the point of use, matching the
// teacher's idiom elsewhere in the core (no custom error-stack type).
var (
	ErrWorkspaceNotFound = errors.New("backup: workspace not found")
	ErrWorkspaceEmpty    = errors.New("backup: workspace is empty")
	ErrMissingSeed       = errors.New("backup: workspace has no SEED.md")
	ErrInvalidJSON       = errors.New("backup: invalid json")
	ErrInvalidFormat     = errors.New("backup: invalid backup format")
	// ErrOneBodyOneSoul is returned by RestoreBackup when the target
	// workspace already holds a SEED.md. Its message carries the exact
	// phrase spec §7 requires callers be able to match on.
	ErrOneBodyOneSoul = errors.New("workspace already contains an entity (One Body, One Soul)")
)

// skipNames and skipPath describe what CreateBackup's walk ignores
// (.tmp files, heartbeat-messages.json, anything under a dot-directory),
// per §4.11.
var skipNames = map[string]bool{
	"heartbeat-messages.json": true,
}

func skipPath(rel string) bool {
	if strings.HasSuffix(rel, ".tmp") {
		return true
	}
	if skipNames[filepath.Base(rel)] {
		return true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}

// File is one captured workspace file, path relative to the workspace
// root using forward slashes (§6 "Backup JSON file format").
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Manifest describes a Bundle without requiring the caller to read its
// file contents.
type Manifest struct {
	Version          int    `json:"version"`
	Checksum         string `json:"checksum"`
	FileCount        int    `json:"file_count"`
	TotalBytes       int    `json:"total_bytes"`
	SeedHash         string `json:"seed_hash"`
	HardwarePlatform string `json:"hardware_platform"`
	HardwareArch     string `json:"hardware_arch"`
	GrowthDay        int    `json:"growth_day"`
}

// Bundle is the full backup payload: §6's {manifest, files}.
type Bundle struct {
	Manifest Manifest `json:"manifest"`
	Files    []File   `json:"files"`
}

// checksum computes the first 16 hex chars of SHA-256 over a canonical
// concatenation of sorted path+content pairs (§4.11).
func checksum(files []File) string {
	sorted := make([]File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	h := sha256.New()
	for _, f := range sorted {
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		h.Write([]byte(f.Content))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// CreateBackup walks workspace, captures every non-skipped file, and
// extracts seed_hash/hardware_platform/hardware_arch/growth_day from
// SEED.md and STATUS.md. It fails with ErrWorkspaceNotFound,
// ErrWorkspaceEmpty, or ErrMissingSeed per §4.11.
func CreateBackup(workspace string, version int) (Bundle, error) {
	info, err := os.Stat(workspace)
	if err != nil || !info.IsDir() {
		return Bundle{}, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, workspace)
	}

	var files []File
	var seedMd string
	sawSeed := false

	err = filepath.WalkDir(workspace, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(workspace, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if rel != "." && strings.HasPrefix(filepath.Base(rel), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if skipPath(rel) {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		slashRel := filepath.ToSlash(rel)
		files = append(files, File{Path: slashRel, Content: string(data)})
		if slashRel == "SEED.md" {
			sawSeed = true
			seedMd = string(data)
		}
		return nil
	})
	if err != nil {
		return Bundle{}, fmt.Errorf("backup: walking %s: %w", workspace, err)
	}

	if len(files) == 0 {
		return Bundle{}, fmt.Errorf("%w: %s", ErrWorkspaceEmpty, workspace)
	}
	if !sawSeed {
		return Bundle{}, fmt.Errorf("%w: %s", ErrMissingSeed, workspace)
	}

	seedFields := extractBullets(seedMd)

	var statusFields map[string]string
	for _, f := range files {
		if f.Path == "STATUS.md" {
			statusFields = extractBullets(f.Content)
			break
		}
	}

	totalBytes := 0
	for _, f := range files {
		totalBytes += len(f.Content)
	}

	growthDay := 0
	if statusFields != nil {
		growthDay = atoiSafe(statusFields["Growth Day"])
	}

	m := Manifest{
		Version:          version,
		FileCount:        len(files),
		TotalBytes:       totalBytes,
		SeedHash:         seedFields["Hash"],
		HardwarePlatform: seedFields["Platform"],
		HardwareArch:     seedFields["Arch"],
		GrowthDay:        growthDay,
	}
	m.Checksum = checksum(files)

	return Bundle{Manifest: m, Files: files}, nil
}

// extractBullets is a tiny "- **Key:** value" scanner shared with
// internal/serialize's markdown bullet format, kept local so the
// backup package does not need to know SEED.md's exact field layout
// beyond the handful of keys it actually reads.
func extractBullets(md string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- **") {
			continue
		}
		line = strings.TrimPrefix(line, "- **")
		parts := strings.SplitN(line, ":**", 2)
		if len(parts) != 2 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}

func atoiSafe(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// SerializeBackup renders a bundle as stable JSON (§6).
func SerializeBackup(b Bundle) (string, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup: serializing: %w", err)
	}
	return string(data), nil
}

// rawBundle mirrors Bundle but with Files left as raw JSON so
// DeserializeBackup can tell "absent" apart from "not an array"
// (ErrInvalidFormat requires distinguishing both).
type rawBundle struct {
	Manifest *Manifest       `json:"manifest"`
	Files    json.RawMessage `json:"files"`
}

// DeserializeBackup parses JSON produced by SerializeBackup (or any
// conforming producer). It rejects non-JSON input (ErrInvalidJSON) and
// any object missing "manifest" or whose "files" is not an array
// (ErrInvalidFormat), per §6/§8.
func DeserializeBackup(data string) (Bundle, error) {
	var raw rawBundle
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if raw.Manifest == nil {
		return Bundle{}, fmt.Errorf("%w: missing manifest", ErrInvalidFormat)
	}
	var files []File
	if len(raw.Files) == 0 || string(raw.Files) == "null" {
		files = nil
	} else {
		trimmed := strings.TrimSpace(string(raw.Files))
		if !strings.HasPrefix(trimmed, "[") {
			return Bundle{}, fmt.Errorf("%w: files is not an array", ErrInvalidFormat)
		}
		if err := json.Unmarshal(raw.Files, &files); err != nil {
			return Bundle{}, fmt.Errorf("%w: files: %v", ErrInvalidFormat, err)
		}
	}
	return Bundle{Manifest: *raw.Manifest, Files: files}, nil
}

// ValidationReport is validate_backup's aggregated result (§4.11):
// every problem is collected rather than short-circuiting on the first.
type ValidationReport struct {
	Valid            bool
	Errors           []string
	Warnings         []string
	IsBodyTransplant bool
}

// ValidateBackup recomputes the checksum, checks for SEED.md/STATUS.md
// presence, and flags a body transplant when the bundle's hardware
// platform or arch differs from the current host's. A transplant is a
// warning, never a failure (§9 design notes: "identity is the seed
// hash, not the hardware").
func ValidateBackup(b Bundle, currentPlatform, currentArch string) ValidationReport {
	var r ValidationReport
	r.Valid = true

	if got := checksum(b.Files); got != b.Manifest.Checksum {
		r.Errors = append(r.Errors, fmt.Sprintf("checksum mismatch: manifest says %s, computed %s", b.Manifest.Checksum, got))
		r.Valid = false
	}

	hasSeed, hasStatus, hasState := false, false, false
	for _, f := range b.Files {
		switch f.Path {
		case "SEED.md":
			hasSeed = true
		case "STATUS.md":
			hasStatus = true
		case "state.json", "__state.json":
			hasState = true
		}
	}
	if !hasSeed {
		r.Errors = append(r.Errors, "bundle has no SEED.md")
		r.Valid = false
	}
	if !hasStatus {
		r.Warnings = append(r.Warnings, "bundle has no STATUS.md")
	}
	if !hasState {
		r.Warnings = append(r.Warnings, "bundle has no state.json")
	}

	if b.Manifest.HardwarePlatform != currentPlatform || b.Manifest.HardwareArch != currentArch {
		r.IsBodyTransplant = true
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"Body transplant detected: backup was taken on %s/%s, restoring onto %s/%s — same soul, new body",
			b.Manifest.HardwarePlatform, b.Manifest.HardwareArch, currentPlatform, currentArch))
	}

	return r
}

// RestoreResult is restore_backup's output (§4.11).
type RestoreResult struct {
	RestoredFiles int
}

// RestoreBackup writes every file in b into targetDir, creating
// directories as needed. It refuses to restore into a workspace that
// already has a SEED.md: ErrOneBodyOneSoul, never suppressed (§7).
func RestoreBackup(b Bundle, targetDir string) (RestoreResult, error) {
	seedPath := filepath.Join(targetDir, "SEED.md")
	if _, err := os.Stat(seedPath); err == nil {
		return RestoreResult{}, ErrOneBodyOneSoul
	}

	for _, f := range b.Files {
		dest := filepath.Join(targetDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return RestoreResult{}, fmt.Errorf("backup: creating %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, []byte(f.Content), 0o644); err != nil {
			return RestoreResult{}, fmt.Errorf("backup: writing %s: %w", dest, err)
		}
	}

	return RestoreResult{RestoredFiles: len(b.Files)}, nil
}

// GenerateBackupFilename returns the canonical
// "yadori-backup-YYYY-MM-DD-dayN-<8hex>.json" name for a manifest,
// using the first 8 hex chars of its seed hash (§4.11).
func GenerateBackupFilename(m Manifest, date string) string {
	short := m.SeedHash
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("yadori-backup-%s-day%d-%s.json", date, m.GrowthDay, short)
}
