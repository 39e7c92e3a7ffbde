// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package objectstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/internal/retry"
	"github.com/pdiddy/feedforward/pkg/types"
)

// SQLite is an ObjectStore backed by a SQLite database file.
type SQLite struct {
	db     *sql.DB
	policy retry.Policy
}

var (
	_ ObjectStore = (*SQLite)(nil)
	_ Lister      = (*SQLite)(nil)
)

// NewSQLite opens or creates the database at cfg.Path and creates the
// schema if it does not exist.
func NewSQLite(cfg types.StoreConfig) (*SQLite, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=1000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLite{
		db: db,
		policy: retry.Policy{
			MaxRetries: cfg.BusyRetries,
			BaseDelay:  cfg.BusyBaseDelay,
			Retryable:  isTransient,
		},
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS objects (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id_hash TEXT NOT NULL,
			version INTEGER NOT NULL,
			type TEXT NOT NULL,
			data TEXT NOT NULL,
			stored TEXT NOT NULL,
			UNIQUE(id_hash, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_objects_type ON objects(type)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// isTransient reports whether err is a busy or locked database error.
func isTransient(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}

// StoreVersioned inserts the next version of obj, retrying while the database is busy.
func (s *SQLite) StoreVersioned(ctx context.Context, obj Object) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", obj.ObjectType(), err)
	}
	hash := HashOf(obj)
	stored := time.Now().UTC().Format(time.RFC3339Nano)

	err = retry.Do(ctx, s.policy, func() error {
		return s.insertVersion(ctx, hash, obj.ObjectType(), data, stored)
	})
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (s *SQLite) insertVersion(ctx context.Context, hash, typ string, data []byte, stored string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM objects WHERE id_hash = ?`, hash,
	).Scan(&version); err != nil {
		return fmt.Errorf("reading version: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO objects (id_hash, version, type, data, stored) VALUES (?, ?, ?, ?, ?)`,
		hash, version+1, typ, string(data), stored,
	)
	if err != nil {
		return fmt.Errorf("inserting %s version %d: %w", typ, version+1, err)
	}

	return tx.Commit()
}

// GetByIDHash returns the highest version stored under idHash.
func (s *SQLite) GetByIDHash(ctx context.Context, idHash string) (*Record, error) {
	var rec *Record
	err := retry.Do(ctx, s.policy, func() error {
		row := s.db.QueryRowContext(ctx,
			`SELECT id_hash, version, type, data, stored FROM objects
			 WHERE id_hash = ? ORDER BY version DESC LIMIT 1`, idHash)
		r, err := scanRecord(row)
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("object", idHash)
		}
		return nil, fmt.Errorf("looking up object: %w", err)
	}
	return rec, nil
}

// ListByType returns the latest version of every object of typ, in first-stored order.
func (s *SQLite) ListByType(ctx context.Context, typ string) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.id_hash, o.version, o.type, o.data, o.stored
		 FROM objects o
		 JOIN (SELECT id_hash, MAX(version) AS latest, MIN(rowid) AS first_row
		       FROM objects WHERE type = ? GROUP BY id_hash) l
		   ON o.id_hash = l.id_hash AND o.version = l.latest
		 ORDER BY l.first_row`, typ)
	if err != nil {
		return nil, fmt.Errorf("listing %s objects: %w", typ, err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec    Record
		data   string
		stored string
	)
	if err := row.Scan(&rec.IDHash, &rec.Version, &rec.Type, &data, &stored); err != nil {
		return nil, err
	}
	rec.Data = []byte(data)
	if t, err := time.Parse(time.RFC3339Nano, stored); err == nil {
		rec.Stored = t
	}
	return &rec, nil
}
