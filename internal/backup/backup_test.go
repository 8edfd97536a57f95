package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeWorkspace(t *testing.T, dir string) {
	t.Helper()
	seedMd := "## Seed\n\n- **Platform:** linux\n- **Arch:** amd64\n- **Hash:** abc123def4567890\n"
	if err := os.WriteFile(filepath.Join(dir, "SEED.md"), []byte(seedMd), 0o644); err != nil {
		t.Fatalf("writing SEED.md: %v", err)
	}
	statusMd := "## Status\n\n- **Growth Day:** 3\n"
	if err := os.WriteFile(filepath.Join(dir, "STATUS.md"), []byte(statusMd), 0o644); err != nil {
		t.Fatalf("writing STATUS.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte(`{"ok":true}`), 0o644); err != nil {
		t.Fatalf("writing state.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scratch.tmp"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("writing scratch.tmp: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "heartbeat-messages.json"), []byte("[]"), 0o644); err != nil {
		t.Fatalf("writing heartbeat-messages.json: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/main"), 0o644); err != nil {
		t.Fatalf("writing .git/HEAD: %v", err)
	}
}

func TestCreateBackupSkipsTmpHiddenAndHeartbeatMessages(t *testing.T) {
	dir := t.TempDir()
	writeWorkspace(t, dir)

	b, err := CreateBackup(dir, 1)
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}
	if b.Manifest.FileCount != 3 {
		t.Fatalf("expected 3 captured files (SEED.md, STATUS.md, state.json), got %d: %+v", b.Manifest.FileCount, b.Files)
	}
	for _, f := range b.Files {
		if f.Path == "scratch.tmp" || f.Path == "heartbeat-messages.json" || filepath.Dir(f.Path) == ".git" {
			t.Fatalf("unexpected skipped file present: %s", f.Path)
		}
	}
	if b.Manifest.SeedHash != "abc123def4567890" {
		t.Fatalf("expected seed hash extracted from SEED.md, got %q", b.Manifest.SeedHash)
	}
	if b.Manifest.HardwarePlatform != "linux" || b.Manifest.HardwareArch != "amd64" {
		t.Fatalf("expected hardware extracted from SEED.md, got %s/%s", b.Manifest.HardwarePlatform, b.Manifest.HardwareArch)
	}
	if b.Manifest.GrowthDay != 3 {
		t.Fatalf("expected growth day extracted from STATUS.md, got %d", b.Manifest.GrowthDay)
	}
}

func TestCreateBackupWorkspaceNotFound(t *testing.T) {
	_, err := CreateBackup(filepath.Join(t.TempDir(), "missing"), 1)
	if !errors.Is(err, ErrWorkspaceNotFound) {
		t.Fatalf("expected ErrWorkspaceNotFound, got %v", err)
	}
}

func TestCreateBackupWorkspaceEmpty(t *testing.T) {
	dir := t.TempDir()
	_, err := CreateBackup(dir, 1)
	if !errors.Is(err, ErrWorkspaceEmpty) {
		t.Fatalf("expected ErrWorkspaceEmpty, got %v", err)
	}
}

func TestCreateBackupMissingSeed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "STATUS.md"), []byte("## Status\n"), 0o644); err != nil {
		t.Fatalf("writing STATUS.md: %v", err)
	}
	_, err := CreateBackup(dir, 1)
	if !errors.Is(err, ErrMissingSeed) {
		t.Fatalf("expected ErrMissingSeed, got %v", err)
	}
}

func TestCreateBackupDeterministicChecksum(t *testing.T) {
	dir := t.TempDir()
	writeWorkspace(t, dir)

	b1, err := CreateBackup(dir, 1)
	if err != nil {
		t.Fatalf("CreateBackup 1: %v", err)
	}
	b2, err := CreateBackup(dir, 1)
	if err != nil {
		t.Fatalf("CreateBackup 2: %v", err)
	}
	if b1.Manifest.Checksum != b2.Manifest.Checksum {
		t.Fatalf("expected identical checksums for unchanged workspace, got %s vs %s", b1.Manifest.Checksum, b2.Manifest.Checksum)
	}

	if err := os.WriteFile(filepath.Join(dir, "STATUS.md"), []byte("## Status\n\n- **Growth Day:** 4\n"), 0o644); err != nil {
		t.Fatalf("rewriting STATUS.md: %v", err)
	}
	b3, err := CreateBackup(dir, 1)
	if err != nil {
		t.Fatalf("CreateBackup 3: %v", err)
	}
	if b3.Manifest.Checksum == b1.Manifest.Checksum {
		t.Fatalf("expected checksum to change after tampering with file content")
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeWorkspace(t, dir)
	b, err := CreateBackup(dir, 2)
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}

	data, err := SerializeBackup(b)
	if err != nil {
		t.Fatalf("SerializeBackup: %v", err)
	}
	got, err := DeserializeBackup(data)
	if err != nil {
		t.Fatalf("DeserializeBackup: %v", err)
	}

	if got.Manifest != b.Manifest {
		t.Fatalf("manifest did not round-trip: got %+v, want %+v", got.Manifest, b.Manifest)
	}
	if len(got.Files) != len(b.Files) {
		t.Fatalf("files did not round-trip: got %d, want %d", len(got.Files), len(b.Files))
	}
}

func TestDeserializeInvalidJSON(t *testing.T) {
	_, err := DeserializeBackup("not json at all")
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestDeserializeMissingManifest(t *testing.T) {
	_, err := DeserializeBackup(`{"files": []}`)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat for missing manifest, got %v", err)
	}
}

func TestDeserializeFilesNotArray(t *testing.T) {
	_, err := DeserializeBackup(`{"manifest": {}, "files": "nope"}`)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat for non-array files, got %v", err)
	}
}

func TestValidateBackupHappyPath(t *testing.T) {
	dir := t.TempDir()
	writeWorkspace(t, dir)
	b, err := CreateBackup(dir, 1)
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}

	report := ValidateBackup(b, "linux", "amd64")
	if !report.Valid {
		t.Fatalf("expected valid=true, got errors %v", report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", report.Errors)
	}
	if report.IsBodyTransplant {
		t.Fatalf("expected no transplant when platform/arch match")
	}
}

func TestValidateBackupBodyTransplant(t *testing.T) {
	dir := t.TempDir()
	writeWorkspace(t, dir)
	b, err := CreateBackup(dir, 1)
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}

	report := ValidateBackup(b, "linux", "arm64")
	if !report.Valid {
		t.Fatalf("expected transplant to stay valid=true, got errors %v", report.Errors)
	}
	if !report.IsBodyTransplant {
		t.Fatalf("expected transplant detected for arch mismatch")
	}
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "Body transplant") && strings.Contains(w, "same soul") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a warning mentioning Body transplant and same soul, got %v", report.Warnings)
	}
}

func TestValidateBackupTamperedChecksum(t *testing.T) {
	dir := t.TempDir()
	writeWorkspace(t, dir)
	b, err := CreateBackup(dir, 1)
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}
	b.Manifest.Checksum = "0000000000000000"

	report := ValidateBackup(b, "linux", "amd64")
	if report.Valid {
		t.Fatalf("expected valid=false for tampered checksum")
	}
	if len(report.Errors) == 0 {
		t.Fatalf("expected a checksum error")
	}
}

func TestRestoreBackupIntoEmptyDir(t *testing.T) {
	src := t.TempDir()
	writeWorkspace(t, src)
	b, err := CreateBackup(src, 1)
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}

	dst := t.TempDir()
	result, err := RestoreBackup(b, dst)
	if err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	if result.RestoredFiles != b.Manifest.FileCount {
		t.Fatalf("expected restored_files=%d, got %d", b.Manifest.FileCount, result.RestoredFiles)
	}
	if _, err := os.Stat(filepath.Join(dst, "SEED.md")); err != nil {
		t.Fatalf("expected SEED.md restored: %v", err)
	}
}

func TestRestoreBackupOneBodyOneSoul(t *testing.T) {
	src := t.TempDir()
	writeWorkspace(t, src)
	b, err := CreateBackup(src, 1)
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}

	dst := t.TempDir()
	if err := os.WriteFile(filepath.Join(dst, "SEED.md"), []byte("## Seed\n"), 0o644); err != nil {
		t.Fatalf("seeding target: %v", err)
	}

	_, err = RestoreBackup(b, dst)
	if !errors.Is(err, ErrOneBodyOneSoul) {
		t.Fatalf("expected ErrOneBodyOneSoul, got %v", err)
	}
	if !strings.Contains(err.Error(), "One Body, One Soul") {
		t.Fatalf("expected error message to contain exact phrase, got %q", err.Error())
	}
}

func TestGenerateBackupFilename(t *testing.T) {
	m := Manifest{SeedHash: "abc123def4567890", GrowthDay: 7}
	got := GenerateBackupFilename(m, "2026-02-08")
	want := "yadori-backup-2026-02-08-day7-abc123de.json"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
