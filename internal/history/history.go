// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed pipeline runs in a local SQLite
// database so past reviews can be listed and compared.
// Implements: docs/ARCHITECTURE § Run History.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "litreview.db"

// Run is one recorded pipeline run.
type Run struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Goal          string    `json:"goal"`
	Query         string    `json:"query"`
	Source        string    `json:"source"`
	Retrieved     int       `json:"retrieved"`
	Filtered      int       `json:"filtered"`
	Mined         int       `json:"mined"`
	TotalPatients int       `json:"total_patients"`
	ReportPath    string    `json:"report_path"`
}

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at indexDir/litreview.db,
// creating the schema if needed.
func Open(indexDir string) (*Store, error) {
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp      TEXT NOT NULL,
	goal           TEXT NOT NULL,
	query          TEXT NOT NULL,
	source         TEXT NOT NULL,
	retrieved      INTEGER NOT NULL,
	filtered       INTEGER NOT NULL,
	mined          INTEGER NOT NULL,
	total_patients INTEGER NOT NULL,
	report_path    TEXT NOT NULL
);`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts a completed run and returns its assigned ID.
func (s *Store) Record(ctx context.Context, r Run) (int64, error) {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO runs (timestamp, goal, query, source, retrieved, filtered, mined, total_patients, report_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(time.RFC3339), r.Goal, r.Query, r.Source,
		r.Retrieved, r.Filtered, r.Mined, r.TotalPatients, r.ReportPath)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent runs, newest first. A non-positive limit
// defaults to 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, timestamp, goal, query, source, retrieved, filtered, mined, total_patients, report_path
FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.Goal, &r.Query, &r.Source,
			&r.Retrieved, &r.Filtered, &r.Mined, &r.TotalPatients, &r.ReportPath); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, ts); perr == nil {
			r.Timestamp = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
