// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS gap_runs (
		run_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		scientific_path TEXT NOT NULL DEFAULT '',
		real_world_path TEXT NOT NULL DEFAULT '',
		records INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS gap_results (
		run_id TEXT NOT NULL REFERENCES gap_runs(run_id),
		rank INTEGER NOT NULL,
		topic TEXT NOT NULL,
		scientific_count INTEGER NOT NULL,
		real_world_count INTEGER NOT NULL,
		scientific_freq REAL NOT NULL,
		real_world_freq REAL NOT NULL,
		gap_score REAL NOT NULL,
		PRIMARY KEY (run_id, rank)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_gap_results_topic ON gap_results(topic)`,
}

// Run identifies one stored analysis.
type Run struct {
	ID             string
	CreatedAt      time.Time
	ScientificPath string
	RealWorldPath  string
}

// SQLiteSink keeps analysis runs in a SQLite database.
type SQLiteSink struct {
	db *sqlx.DB
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteSink, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return &SQLiteSink{db: db}, nil
}

// Close releases the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

type resultRow struct {
	RunID string `db:"run_id"`
	Rank  int    `db:"rank"`
	types.TopicGapRecord
}

// SaveRun stores records in rank order under run.ID in one transaction.
func (s *SQLiteSink) SaveRun(ctx context.Context, run Run, records []types.TopicGapRecord) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO gap_runs (run_id, created_at, scientific_path, real_world_path, records) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), run.ScientificPath, run.RealWorldPath, len(records),
	); err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, `INSERT INTO gap_results
		(run_id, rank, topic, scientific_count, real_world_count, scientific_freq, real_world_freq, gap_score)
		VALUES (:run_id, :rank, :topic, :scientific_count, :real_world_count, :scientific_freq, :real_world_freq, :gap_score)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, resultRow{RunID: run.ID, Rank: i + 1, TopicGapRecord: r}); err != nil {
			return fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// LoadRun returns the records of a stored run in rank order.
func (s *SQLiteSink) LoadRun(ctx context.Context, runID string) ([]types.TopicGapRecord, error) {
	var records []types.TopicGapRecord
	err := s.db.SelectContext(ctx, &records, `SELECT topic, scientific_count, real_world_count,
		scientific_freq, real_world_freq, gap_score FROM gap_results WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	return records, nil
}

// Runs lists stored run IDs, newest first.
func (s *SQLiteSink) Runs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, `SELECT run_id FROM gap_runs ORDER BY created_at DESC, run_id`); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return ids, nil
}
