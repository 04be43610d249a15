// Package history persists build outcomes in a local sqlite database so the
// daemon can serve recent build results over HTTP.
package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id         TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	status     TEXT NOT NULL,
	projects   INTEGER NOT NULL,
	skipped    INTEGER NOT NULL,
	warnings   INTEGER NOT NULL,
	report     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS builds_started_at ON builds(started_at);
`

// Record is one persisted build outcome. Report carries the full build
// report as JSON.
type Record struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Status    string
	Projects  int
	Skipped   int
	Warnings  int
	Report    string
}

// Store wraps the sqlite database holding build history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, gerrors.InternalError("open history database", err)
	}
	// The driver is not safe for concurrent writers on one file.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, gerrors.InternalError("initialize history schema", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Append(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, started_at, duration_ms, status, projects, skipped, warnings, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
		rec.Status,
		rec.Projects,
		rec.Skipped,
		rec.Warnings,
		rec.Report,
	)
	if err != nil {
		return gerrors.InternalError("append build record", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, status, projects, skipped, warnings, report
		 FROM builds ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, gerrors.InternalError("query build records", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var started string
		var durationMS int64
		if err := rows.Scan(&rec.ID, &started, &durationMS, &rec.Status,
			&rec.Projects, &rec.Skipped, &rec.Warnings, &rec.Report); err != nil {
			return nil, gerrors.InternalError("scan build record", err)
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, gerrors.InternalError("parse build timestamp", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.InternalError("iterate build records", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
