// Package history records ended clicking sessions in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autoclick/internal/core/autoclicker"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Record is one persisted session.
type Record struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Clicks    uint64
	Failures  uint64
	Reason    string
	Button    string
	StopMode  string
	StopLimit int64
	DelayMode string
	DelayMs   int64
	DelayMin  int64
	DelayMax  int64
	Position  string
}

func (r Record) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// RecordFromSummary flattens an ended session.
func RecordFromSummary(s autoclicker.SessionSummary) Record {
	return Record{
		ID:        s.ID,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Clicks:    s.Clicks,
		Failures:  s.Failures,
		Reason:    string(s.Reason),
		Button:    s.Config.Button.String(),
		StopMode:  s.Config.Stop.Mode.String(),
		StopLimit: s.Config.Stop.Limit,
		DelayMode: s.Config.Delay.Mode.String(),
		DelayMs:   s.Config.Delay.FixedMs,
		DelayMin:  s.Config.Delay.MinMs,
		DelayMax:  s.Config.Delay.MaxMs,
		Position:  s.Config.Position.Mode.String(),
	}
}

// timeLayout has fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Recording happens from the notice goroutine while the CLI may read.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate history: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			clicks INTEGER NOT NULL,
			failures INTEGER NOT NULL,
			reason TEXT NOT NULL,
			button TEXT NOT NULL,
			stop_mode TEXT NOT NULL,
			stop_limit INTEGER NOT NULL,
			delay_mode TEXT NOT NULL,
			delay_ms INTEGER NOT NULL,
			delay_min_ms INTEGER NOT NULL,
			delay_max_ms INTEGER NOT NULL,
			position TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert stores an ended session. Re-inserting the same ID replaces it.
func (s *Store) Insert(ctx context.Context, r Record) error {
	if r.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, started_at, ended_at, clicks, failures, reason, button, stop_mode, stop_limit, delay_mode, delay_ms, delay_min_ms, delay_max_ms, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.StartedAt.UTC().Format(timeLayout),
		r.EndedAt.UTC().Format(timeLayout),
		int64(r.Clicks),
		int64(r.Failures),
		r.Reason,
		r.Button,
		r.StopMode,
		r.StopLimit,
		r.DelayMode,
		r.DelayMs,
		r.DelayMin,
		r.DelayMax,
		r.Position,
	)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", r.ID, err)
	}
	return nil
}

// RecordSummary stores a session reported by the scheduler.
func (s *Store) RecordSummary(ctx context.Context, summary autoclicker.SessionSummary) error {
	return s.Insert(ctx, RecordFromSummary(summary))
}

// Recent returns up to limit sessions, most recently ended first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, clicks, failures, reason, button, stop_mode, stop_limit, delay_mode, delay_ms, delay_min_ms, delay_max_ms, position
		 FROM sessions ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Record
	for rows.Next() {
		var (
			r                Record
			started, ended   string
			clicks, failures int64
		)
		if err := rows.Scan(&r.ID, &started, &ended, &clicks, &failures, &r.Reason, &r.Button, &r.StopMode, &r.StopLimit, &r.DelayMode, &r.DelayMs, &r.DelayMin, &r.DelayMax, &r.Position); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("session %s: bad started_at: %w", r.ID, err)
		}
		if r.EndedAt, err = time.Parse(timeLayout, ended); err != nil {
			return nil, fmt.Errorf("session %s: bad ended_at: %w", r.ID, err)
		}
		r.Clicks = uint64(clicks)
		r.Failures = uint64(failures)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Totals sums clicks and sessions across all history.
type Totals struct {
	Sessions int64
	Clicks   int64
	Duration time.Duration
}

func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var (
		t       Totals
		totalMs sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(clicks), 0),
			SUM((julianday(ended_at) - julianday(started_at)) * 86400000.0)
		 FROM sessions`).Scan(&t.Sessions, &t.Clicks, &totalMs)
	if err != nil {
		return Totals{}, err
	}
	if totalMs.Valid {
		t.Duration = time.Duration(totalMs.Float64) * time.Millisecond
	}
	return t, nil
}
