// Package sqlite provides a SQLite-backed SnapshotStore.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/formstate/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS form_snapshots (
	form_id    TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists snapshots in a single SQLite table, one JSON row per form.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts the snapshot row.
func (s *Store) Save(ctx context.Context, formID string, snap *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if formID == "" {
		return fmt.Errorf("form id is required")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO form_snapshots (form_id, payload, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(form_id) DO UPDATE SET
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		formID,
		string(payload),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("save form %q: %w", formID, err)
	}
	return nil
}

// Load reads the snapshot row for formID.
func (s *Store) Load(ctx context.Context, formID string) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var payload string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT payload FROM form_snapshots WHERE form_id = ?`, formID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load form %q: %w", formID, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %q: %w", formID, err)
	}
	return &snap, nil
}

// Delete removes the row. Deleting a missing form is not an error.
func (s *Store) Delete(ctx context.Context, formID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM form_snapshots WHERE form_id = ?`, formID); err != nil {
		return fmt.Errorf("delete form %q: %w", formID, err)
	}
	return nil
}

// List returns form IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT form_id FROM form_snapshots ORDER BY form_id`)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan form id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return ids, nil
}
