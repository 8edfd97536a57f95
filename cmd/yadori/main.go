// Command yadori is the thin CLI entrypoint around the Life Engine: it
// owns no domain logic of its own, only flag parsing, workspace I/O,
// and wiring real randomness/ids at the boundary so internal/engine
// stays pure. Mirrors bud-state's subcommand-over-os.Args dispatch.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/yadori/yadori/internal/backup"
	"github.com/yadori/yadori/internal/config"
	"github.com/yadori/yadori/internal/dynamics"
	"github.com/yadori/yadori/internal/engine"
	"github.com/yadori/yadori/internal/hostdesc"
	"github.com/yadori/yadori/internal/ledger"
	"github.com/yadori/yadori/internal/logging"
	"github.com/yadori/yadori/internal/perception"
	"github.com/yadori/yadori/internal/seed"
	"github.com/yadori/yadori/internal/workspace"
)

// stateHash is the first 16 hex chars of SHA-256 over the state's own
// JSON encoding, the ledger's cheap per-tick fingerprint.
func stateHash(st engine.EntityState) string {
	data, err := json.Marshal(st)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, using environment variables")
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	statePath := os.Getenv("YADORI_STATE_PATH")
	if statePath == "" {
		statePath = "state"
	}

	cfgPath := os.Getenv("YADORI_CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = filepath.Join(statePath, "yadori.yaml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	switch os.Args[1] {
	case "genesis":
		cmdGenesis(statePath, os.Args[2:])
	case "heartbeat":
		cmdHeartbeat(statePath, cfg, os.Args[2:])
	case "interact":
		cmdInteract(statePath, cfg, os.Args[2:])
	case "backup":
		cmdBackup(statePath, os.Args[2:])
	case "restore":
		cmdRestore(statePath, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`yadori - digital entity life engine

Usage: yadori <command> [options]

Commands:
  genesis              Create a new entity in YADORI_STATE_PATH (default ./state)
  heartbeat            Run one heartbeat tick against the stored entity
  interact             Record one interaction against the stored entity
  backup               Bundle the workspace into a checksummed backup file
  restore <file>       Restore a backup bundle into an empty workspace

Environment:
  YADORI_STATE_PATH    Workspace directory (default "state")
  YADORI_CONFIG_PATH   Tunables yaml (default <state>/yadori.yaml)`)
}

// idGenerator backs engine.IDGenerator with real uuids, the only place
// in this repo that calls uuid.New — every pure package takes an
// injected id function instead.
func idGenerator() engine.IDGenerator {
	return engine.IDGenerator{
		Signal: func(_ dynamics.SignalType, _ time.Time) string { return uuid.New().String() },
		Moment: func(_ dynamics.MomentType, _ time.Time) string { return uuid.New().String() },
	}
}

func cmdGenesis(statePath string, args []string) {
	fs := flag.NewFlagSet("genesis", flag.ExitOnError)
	fs.Parse(args)

	if workspace.Exists(statePath) {
		log.Fatalf("genesis: %s already contains an entity (One Body, One Soul)", statePath)
	}

	hw := hostdesc.Collect()
	sd, err := seed.GenerateSeed(hw, time.Now())
	if err != nil {
		log.Fatalf("genesis: generating seed: %v", err)
	}

	st := engine.New(*sd)
	if err := workspace.Save(statePath, st); err != nil {
		log.Fatalf("genesis: saving workspace: %v", err)
	}
	if err := workspace.WriteSoul(statePath, engine.RenderSoulMd(st)); err != nil {
		log.Fatalf("genesis: writing SOUL.md: %v", err)
	}

	logging.Info("genesis", "a %s entity was born in %s (perception=%s temperament=%s form=%s)",
		sd.Perception, statePath, sd.Perception, sd.Temperament, sd.Form)
}

func cmdHeartbeat(statePath string, cfg config.Config, args []string) {
	fs := flag.NewFlagSet("heartbeat", flag.ExitOnError)
	proactive := fs.Int("proactive-sent", 0, "proactive messages sent since the last heartbeat")
	fs.Parse(args)

	st, err := workspace.Load(statePath)
	if err != nil {
		log.Fatalf("heartbeat: loading workspace: %v", err)
	}

	now := time.Now().UTC()
	res := engine.ProcessHeartbeat(st, cfg, engine.HeartbeatInputs{
		ModalitiesObserved:    observedModalities(st),
		ProactiveMessagesSent: *proactive,
	}, now, idGenerator())

	if err := workspace.Save(statePath, res.State); err != nil {
		log.Fatalf("heartbeat: saving workspace: %v", err)
	}
	if res.Diary != nil && res.DiaryDate != nil {
		if err := workspace.WriteDiary(statePath, *res.DiaryDate, *res.Diary); err != nil {
			log.Printf("heartbeat: writing diary: %v", err)
		}
	}
	if res.SoulEvilMd != nil {
		if err := workspace.WriteSoulEvil(statePath, *res.SoulEvilMd); err != nil {
			log.Printf("heartbeat: writing SOUL_EVIL.md: %v", err)
		}
	} else {
		if err := workspace.WriteSoul(statePath, engine.RenderSoulMd(res.State)); err != nil {
			log.Printf("heartbeat: writing SOUL.md: %v", err)
		}
	}

	if led, err := ledger.Open(statePath); err != nil {
		log.Printf("heartbeat: opening ledger: %v", err)
	} else {
		reversals := make([]ledger.ReversalRecord, 0, len(res.NewReversals))
		for _, r := range res.NewReversals {
			reversals = append(reversals, ledger.ReversalRecord{
				SignalID: r.ID, SignalType: string(r.Type), Strength: r.Strength, DetectedAt: r.Timestamp,
			})
		}
		_, err := led.RecordEvent(ledger.EventSnapshot{
			Kind:               ledger.KindHeartbeat,
			OccurredAt:         now,
			GrowthDay:          res.State.Status.GrowthDay,
			StateHash:          stateHash(res.State),
			Mood:               res.State.Status.Mood,
			Energy:             res.State.Status.Energy,
			Curiosity:          res.State.Status.Curiosity,
			Comfort:            res.State.Status.Comfort,
			Sulking:            res.State.Sulk.IsSulking,
			ActiveSoulFile:     res.ActiveSoulFile,
			MemoryConsolidated: res.MemoryConsolidated,
			NewMilestones:      res.NewMilestones,
		}, reversals)
		if err != nil {
			log.Printf("heartbeat: recording ledger event: %v", err)
		}
		led.Close()
	}

	if res.ProactiveSuppressed {
		logging.Info("heartbeat", "proactive messages suppressed: entity is severely sulking")
	}
	logging.Tick("heartbeat", res.State.Status.GrowthDay, res.State.Status.Mood, res.ActiveSoulFile,
		fmt.Sprintf("wake=%t sleep=%t milestones=%d reversals=%d", res.Wake, res.Sleep, len(res.NewMilestones), len(res.NewReversals)))
}

// observedModalities reports which modality kinds have already been
// seen this entity's lifetime; a real deployment would instead pass in
// whatever modalities actually fired since the last tick.
func observedModalities(st engine.EntityState) []perception.Modality {
	var out []perception.Modality
	for m := range st.SeenModalities {
		out = append(out, m)
	}
	return out
}

func cmdInteract(statePath string, cfg config.Config, args []string) {
	fs := flag.NewFlagSet("interact", flag.ExitOnError)
	minutes := fs.Int("minutes-since-last", 0, "minutes since the last interaction")
	userInitiated := fs.Bool("user-initiated", true, "whether the user initiated this interaction")
	length := fs.Int("message-length", 0, "message length in characters")
	summary := fs.String("summary", "", "one-line summary stored in hot memory")
	fs.Parse(args)

	st, err := workspace.Load(statePath)
	if err != nil {
		log.Fatalf("interact: loading workspace: %v", err)
	}

	now := time.Now().UTC()
	res := engine.ProcessInteraction(st, cfg, engine.InteractionContext{
		MinutesSinceLastInteraction: *minutes,
		UserInitiated:               *userInitiated,
		MessageLength:               *length,
		Summary:                     *summary,
	}, now)

	if err := workspace.Save(statePath, res.State); err != nil {
		log.Fatalf("interact: saving workspace: %v", err)
	}
	if res.FirstEncounterDiaryMd != nil {
		if err := workspace.WriteDiary(statePath, now, *res.FirstEncounterDiaryMd); err != nil {
			log.Printf("interact: writing first-encounter diary: %v", err)
		}
	}
	if res.ActiveSoulFile == "SOUL.md" {
		if err := workspace.WriteSoul(statePath, engine.RenderSoulMd(res.State)); err != nil {
			log.Printf("interact: writing SOUL.md: %v", err)
		}
	}

	if led, err := ledger.Open(statePath); err != nil {
		log.Printf("interact: opening ledger: %v", err)
	} else {
		_, err := led.RecordEvent(ledger.EventSnapshot{
			Kind:           ledger.KindInteraction,
			OccurredAt:     now,
			GrowthDay:      res.State.Status.GrowthDay,
			StateHash:      stateHash(res.State),
			Mood:           res.State.Status.Mood,
			Energy:         res.State.Status.Energy,
			Curiosity:      res.State.Status.Curiosity,
			Comfort:        res.State.Status.Comfort,
			Sulking:        res.State.Sulk.IsSulking,
			ActiveSoulFile: res.ActiveSoulFile,
			NewMilestones:  res.NewMilestones,
		}, nil)
		if err != nil {
			log.Printf("interact: recording ledger event: %v", err)
		}
		led.Close()
	}

	if res.FirstEncounter != nil {
		logging.Info("interact", "first encounter: %q", res.FirstEncounter.Expression)
	}
	logging.Tick("interact", res.State.Status.GrowthDay, res.State.Status.Mood, res.ActiveSoulFile,
		fmt.Sprintf("total_interactions=%d language_level=%d", res.State.Language.TotalInteractions, res.State.Language.Level))
}

func cmdBackup(statePath string, args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	out := fs.String("out", "", "output file path (default yadori-backup-<date>-day<N>-<hash>.json next to the workspace)")
	version := fs.Int("version", 1, "manifest version")
	fs.Parse(args)

	bundle, err := backup.CreateBackup(statePath, *version)
	if err != nil {
		log.Fatalf("backup: %v", err)
	}

	data, err := backup.SerializeBackup(bundle)
	if err != nil {
		log.Fatalf("backup: serializing: %v", err)
	}

	dest := *out
	if dest == "" {
		name := backup.GenerateBackupFilename(bundle.Manifest, time.Now().UTC().Format("2006-01-02"))
		dest = filepath.Join(filepath.Dir(statePath), name)
	}
	if err := os.WriteFile(dest, []byte(data), 0o644); err != nil {
		log.Fatalf("backup: writing %s: %v", dest, err)
	}

	logging.Info("backup", "wrote %s (%d files, %d bytes)", dest, bundle.Manifest.FileCount, bundle.Manifest.TotalBytes)
}

func cmdRestore(statePath string, args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		log.Fatal("restore: usage: yadori restore <backup-file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		log.Fatalf("restore: reading %s: %v", fs.Arg(0), err)
	}

	bundle, err := backup.DeserializeBackup(string(data))
	if err != nil {
		log.Fatalf("restore: deserializing: %v", err)
	}

	hw := hostdesc.Collect()
	report := backup.ValidateBackup(bundle, hw.Platform, hw.Arch)
	for _, w := range report.Warnings {
		logging.Info("restore", "warning: %s", w)
	}
	if !report.Valid {
		log.Fatalf("restore: invalid backup: %v", report.Errors)
	}

	result, err := backup.RestoreBackup(bundle, statePath)
	if err != nil {
		log.Fatalf("restore: %v", err)
	}

	logging.Info("restore", "restored %d files into %s (body_transplant=%t)", result.RestoredFiles, statePath, report.IsBodyTransplant)
}
