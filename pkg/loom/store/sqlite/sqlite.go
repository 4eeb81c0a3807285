// Package sqlite implements store.Store on top of modernc.org/sqlite, with
// WAL mode, foreign keys on, and schema-on-open.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/loom/pkg/loom/store"
	"github.com/cognicore/loom/pkg/loom/term"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database at path with WAL mode and foreign keys
// enabled, creating the schema if absent.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS facts (
	key TEXT PRIMARY KEY,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	steps INTEGER NOT NULL,
	fact_count INTEGER NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }

// SaveFacts replaces the stored fact set inside a single transaction.
func (s *sqliteStore) SaveFacts(ctx context.Context, facts []term.Term) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: save facts: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM facts"); err != nil {
		return fmt.Errorf("sqlite: clear facts: %w", err)
	}

	for _, f := range facts {
		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("sqlite: encode fact: %w", err)
		}
		const stmt = `INSERT INTO facts (key, data) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET data=excluded.data`
		if _, err := tx.ExecContext(ctx, stmt, f.Key(), string(data)); err != nil {
			return fmt.Errorf("sqlite: insert fact: %w", err)
		}
	}

	return tx.Commit()
}

// LoadFacts returns every stored fact.
func (s *sqliteStore) LoadFacts(ctx context.Context) ([]term.Term, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data FROM facts")
	if err != nil {
		return nil, fmt.Errorf("sqlite: load facts: %w", err)
	}
	defer rows.Close()

	var out []term.Term
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("sqlite: scan fact: %w", err)
		}
		var f term.Term
		if err := json.Unmarshal([]byte(data), &f); err != nil {
			return nil, fmt.Errorf("sqlite: decode fact: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SaveRun inserts a run history record.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.RunRecord) error {
	const stmt = `INSERT INTO runs (id, started_at, steps, fact_count) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET steps=excluded.steps, fact_count=excluded.fact_count`
	_, err := s.db.ExecContext(ctx, stmt, r.ID, r.StartedAt.Format(time.RFC3339Nano), r.Steps, r.FactCount)
	if err != nil {
		return fmt.Errorf("sqlite: save run: %w", err)
	}
	return nil
}

// Runs returns up to limit most-recent run records, newest first.
func (s *sqliteStore) Runs(ctx context.Context, limit int) ([]store.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, steps, fact_count FROM runs ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load runs: %w", err)
	}
	defer rows.Close()

	var out []store.RunRecord
	for rows.Next() {
		var r store.RunRecord
		var startedAt string
		if err := rows.Scan(&r.ID, &startedAt, &r.Steps, &r.FactCount); err != nil {
			return nil, fmt.Errorf("sqlite: scan run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse run time: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
