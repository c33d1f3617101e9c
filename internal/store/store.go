// Package store persists harvested records in SQLite, keyed by normalized
// URL. Re-harvesting a URL replaces its record; the previous harvest's
// timestamp is not preserved.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/listingkit/listingkit/pkg/record"
)

// ErrNotFound is returned when no record exists for a URL.
var ErrNotFound = errors.New("record not found")

// Repository is the persistence surface the CLI saves into.
type Repository interface {
	SaveProperty(ctx context.Context, rec *record.PropertyRecord) error
	SaveAgent(ctx context.Context, rec *record.AgentRecord) error
	GetProperty(ctx context.Context, url string) (*record.PropertyRecord, error)
	GetAgent(ctx context.Context, url string) (*record.AgentRecord, error)
	ListProperties(ctx context.Context) ([]*record.PropertyRecord, error)
	ListAgents(ctx context.Context) ([]*record.AgentRecord, error)
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS properties (
	url          TEXT PRIMARY KEY,
	family       TEXT NOT NULL,
	record       TEXT NOT NULL,
	harvested_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS agents (
	url          TEXT PRIMARY KEY,
	family       TEXT NOT NULL,
	record       TEXT NOT NULL,
	harvested_at TIMESTAMP NOT NULL
);
`

// SQLite is the Repository implementation backed by a local SQLite file.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// SaveProperty upserts a property record by URL.
func (s *SQLite) SaveProperty(ctx context.Context, rec *record.PropertyRecord) error {
	return s.save(ctx, "properties", rec.URL, string(rec.Family), rec.HarvestedAt, rec)
}

// SaveAgent upserts an agent record by URL.
func (s *SQLite) SaveAgent(ctx context.Context, rec *record.AgentRecord) error {
	return s.save(ctx, "agents", rec.URL, string(rec.Family), rec.HarvestedAt, rec)
}

func (s *SQLite) save(ctx context.Context, table, url, family string, at time.Time, rec any) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (url, family, record, harvested_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			family = excluded.family,
			record = excluded.record,
			harvested_at = excluded.harvested_at`, table)
	if _, err := s.db.ExecContext(ctx, query, url, family, string(payload), at); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// GetProperty loads the property record for a URL.
func (s *SQLite) GetProperty(ctx context.Context, url string) (*record.PropertyRecord, error) {
	var rec record.PropertyRecord
	if err := s.get(ctx, "properties", url, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetAgent loads the agent record for a URL.
func (s *SQLite) GetAgent(ctx context.Context, url string) (*record.AgentRecord, error) {
	var rec record.AgentRecord
	if err := s.get(ctx, "agents", url, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLite) get(ctx context.Context, table, url string, dst any) error {
	var payload string
	query := fmt.Sprintf("SELECT record FROM %s WHERE url = ?", table)
	err := s.db.QueryRowContext(ctx, query, url).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("loading record: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	return nil
}

// ListProperties returns every stored property record, most recent first.
func (s *SQLite) ListProperties(ctx context.Context) ([]*record.PropertyRecord, error) {
	payloads, err := s.list(ctx, "properties")
	if err != nil {
		return nil, err
	}
	recs := make([]*record.PropertyRecord, 0, len(payloads))
	for _, p := range payloads {
		var rec record.PropertyRecord
		if err := json.Unmarshal([]byte(p), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

// ListAgents returns every stored agent record, most recent first.
func (s *SQLite) ListAgents(ctx context.Context) ([]*record.AgentRecord, error) {
	payloads, err := s.list(ctx, "agents")
	if err != nil {
		return nil, err
	}
	recs := make([]*record.AgentRecord, 0, len(payloads))
	for _, p := range payloads {
		var rec record.AgentRecord
		if err := json.Unmarshal([]byte(p), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

func (s *SQLite) list(ctx context.Context, table string) ([]string, error) {
	query := fmt.Sprintf("SELECT record FROM %s ORDER BY harvested_at DESC", table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var payloads []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, rows.Err()
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
