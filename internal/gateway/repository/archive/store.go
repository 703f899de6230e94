// Package archive mirrors stored incidents into postgres when a DSN
// is configured. It is a best-effort write-through behind the store's
// add/read contract; the in-memory store stays the in-session source
// of truth and the archive is disabled entirely without a DSN.
package archive

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"safespot/internal/incident"
)

type Store struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

// New opens a postgres-backed archive.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewFromEnv returns an archive when INCIDENT_PG_DSN is set and
// reachable, nil otherwise. A nil *Store is a valid no-op receiver.
func NewFromEnv() *Store {
	dsn := strings.TrimSpace(os.Getenv("INCIDENT_PG_DSN"))
	if dsn == "" {
		return nil
	}
	s, err := New(dsn)
	if err != nil {
		log.Printf("incident archive disabled: %v", err)
		return nil
	}
	return s
}

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS incidents (
  id TEXT PRIMARY KEY,
  description TEXT NOT NULL,
  photo_url TEXT NOT NULL DEFAULT '',
  photo_hint TEXT NOT NULL DEFAULT '',
  lat DOUBLE PRECISION NOT NULL,
  lng DOUBLE PRECISION NOT NULL,
  category TEXT NOT NULL,
  severity TEXT NOT NULL,
  requires_human_review BOOLEAN NOT NULL DEFAULT FALSE,
  created_at_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_incidents_created_at_ms ON incidents (created_at_ms DESC);
CREATE INDEX IF NOT EXISTS idx_incidents_category ON incidents (category);
`)
	})
	return s.schemaErr
}

// Save inserts rec. Safe on a nil receiver.
func (s *Store) Save(ctx context.Context, rec incident.Record) error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO incidents (
  id, description, photo_url, photo_hint, lat, lng, category, severity, requires_human_review, created_at_ms
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Description, rec.PhotoURL, rec.PhotoHint,
		rec.Location.Lat, rec.Location.Lng,
		rec.Category, rec.Severity, rec.RequiresHumanReview, rec.Timestamp,
	)
	return err
}

// Recent returns up to limit archived records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]incident.Record, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, description, photo_url, photo_hint, lat, lng, category, severity, requires_human_review, created_at_ms
FROM incidents ORDER BY created_at_ms DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []incident.Record
	for rows.Next() {
		var rec incident.Record
		if err := rows.Scan(
			&rec.ID, &rec.Description, &rec.PhotoURL, &rec.PhotoHint,
			&rec.Location.Lat, &rec.Location.Lng,
			&rec.Category, &rec.Severity, &rec.RequiresHumanReview, &rec.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the database handle. Safe on a nil receiver.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
