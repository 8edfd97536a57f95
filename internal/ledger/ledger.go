// Package ledger is an ambient, non-core SQLite event log: a
// queryable history of what the engine produced on every
// process_heartbeat/process_interaction call, independent of the
// spec-mandated markdown/state.json artifacts. A collaborator opens
// one per workspace and records each result for diagnostics, the same
// role internal/journal plays in the teacher repo, generalized away
// from its entity/embedding graph.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yadori/yadori/internal/growth"
)

// Ledger wraps the SQLite connection for one workspace's event log.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger database at <statePath>/system/ledger.db.
func Open(statePath string) (*Ledger, error) {
	dbPath := filepath.Join(statePath, "system", "ledger.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ledger: creating directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("ledger: opening %s: %w", dbPath, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: pinging %s: %w", dbPath, err)
	}

	l := &Ledger{db: db, path: dbPath}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: migrating: %w", err)
	}
	return l, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		occurred_at DATETIME NOT NULL,
		growth_day INTEGER NOT NULL,
		state_hash TEXT NOT NULL,
		mood INTEGER NOT NULL,
		energy INTEGER NOT NULL,
		curiosity INTEGER NOT NULL,
		comfort INTEGER NOT NULL,
		sulking BOOLEAN NOT NULL,
		active_soul_file TEXT NOT NULL,
		memory_consolidated BOOLEAN NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events(occurred_at);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);

	CREATE TABLE IF NOT EXISTS milestones (
		event_id INTEGER NOT NULL,
		milestone_id TEXT NOT NULL,
		label TEXT NOT NULL,
		achieved_day INTEGER NOT NULL,
		achieved_at DATETIME NOT NULL,
		FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
		UNIQUE(milestone_id)
	);

	CREATE TABLE IF NOT EXISTS reversals (
		event_id INTEGER NOT NULL,
		signal_id TEXT NOT NULL,
		signal_type TEXT NOT NULL,
		strength REAL NOT NULL,
		detected_at DATETIME NOT NULL,
		FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
		UNIQUE(signal_id)
	);
	`
	_, err := l.db.Exec(schema)
	return err
}

// EventKind distinguishes a heartbeat tick from an interaction.
type EventKind string

const (
	KindHeartbeat   EventKind = "heartbeat"
	KindInteraction EventKind = "interaction"
)

// EventSnapshot is the subset of a process_* result worth recording.
type EventSnapshot struct {
	Kind               EventKind
	OccurredAt         time.Time
	GrowthDay          int
	StateHash          string
	Mood, Energy       int
	Curiosity, Comfort int
	Sulking            bool
	ActiveSoulFile     string
	MemoryConsolidated bool
	NewMilestones      []growth.Milestone
}

// ReversalRecord is one detected reversal signal to attach to an event.
type ReversalRecord struct {
	SignalID   string
	SignalType string
	Strength   float64
	DetectedAt time.Time
}

// RecordEvent inserts one event row plus any milestones/reversals that
// fired on it. Milestone and reversal ids are UNIQUE, so a re-insert of
// an already-recorded id is silently ignored rather than erroring —
// mirroring the core's own "a milestone id appears at most once" rule
// at the ledger layer.
func (l *Ledger) RecordEvent(snap EventSnapshot, reversals []ReversalRecord) (int64, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("ledger: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO events (kind, occurred_at, growth_day, state_hash, mood, energy, curiosity, comfort, sulking, active_soul_file, memory_consolidated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(snap.Kind), snap.OccurredAt, snap.GrowthDay, snap.StateHash,
		snap.Mood, snap.Energy, snap.Curiosity, snap.Comfort,
		snap.Sulking, snap.ActiveSoulFile, snap.MemoryConsolidated,
	)
	if err != nil {
		return 0, fmt.Errorf("ledger: inserting event: %w", err)
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ledger: reading event id: %w", err)
	}

	for _, m := range snap.NewMilestones {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO milestones (event_id, milestone_id, label, achieved_day, achieved_at) VALUES (?, ?, ?, ?, ?)`,
			eventID, m.ID, m.Label, m.AchievedDay, m.AchievedAt,
		); err != nil {
			return 0, fmt.Errorf("ledger: inserting milestone %s: %w", m.ID, err)
		}
	}

	for _, r := range reversals {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO reversals (event_id, signal_id, signal_type, strength, detected_at) VALUES (?, ?, ?, ?, ?)`,
			eventID, r.SignalID, r.SignalType, r.Strength, r.DetectedAt,
		); err != nil {
			return 0, fmt.Errorf("ledger: inserting reversal %s: %w", r.SignalID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("ledger: commit: %w", err)
	}
	return eventID, nil
}

// RecentEvents returns the last n events, most recent first.
func (l *Ledger) RecentEvents(n int) ([]EventSnapshot, error) {
	rows, err := l.db.Query(
		`SELECT kind, occurred_at, growth_day, state_hash, mood, energy, curiosity, comfort, sulking, active_soul_file, memory_consolidated
		 FROM events ORDER BY occurred_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("ledger: querying recent events: %w", err)
	}
	defer rows.Close()

	var out []EventSnapshot
	for rows.Next() {
		var s EventSnapshot
		var kind string
		if err := rows.Scan(&kind, &s.OccurredAt, &s.GrowthDay, &s.StateHash, &s.Mood, &s.Energy, &s.Curiosity, &s.Comfort, &s.Sulking, &s.ActiveSoulFile, &s.MemoryConsolidated); err != nil {
			return nil, fmt.Errorf("ledger: scanning event: %w", err)
		}
		s.Kind = EventKind(kind)
		out = append(out, s)
	}
	return out, rows.Err()
}

// MilestoneCount returns how many distinct milestones the ledger has
// ever recorded for this workspace, a cheap sanity check against the
// core's own append-only growth.State.Milestones list.
func (l *Ledger) MilestoneCount() (int, error) {
	var n int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM milestones`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ledger: counting milestones: %w", err)
	}
	return n, nil
}
