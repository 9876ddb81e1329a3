// Package recentfiles keeps the list of recently opened data files in a
// SQLite table, most recent first and bounded to a fixed length.
package recentfiles

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS recent_files (
  path      TEXT PRIMARY KEY,
  reader    TEXT NOT NULL,
  opened_at INTEGER NOT NULL,
  seq       INTEGER NOT NULL
)`

// Entry is one opened file.
type Entry struct {
	Path     string
	Reader   string
	OpenedAt time.Time
}

// Store persists recent files in SQLite.
type Store struct {
	sqlDB *sql.DB
	limit int
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (or creates) the database at path and keeps at most limit
// entries. ":memory:" gives a private, process-lifetime list.
func Open(ctx context.Context, path string, limit int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, limit: limit, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Limit returns the maximum number of entries kept.
func (s *Store) Limit() int { return s.limit }

// Push records path as the most recently opened file. A path already in the
// list moves to the front; the oldest entries beyond the limit are dropped.
func (s *Store) Push(ctx context.Context, path, reader string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recent_files (path, reader, opened_at, seq)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM recent_files))
		 ON CONFLICT(path) DO UPDATE SET
		   reader = excluded.reader,
		   opened_at = excluded.opened_at,
		   seq = excluded.seq`,
		path, reader, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("push %s: %w", path, err)
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM recent_files WHERE path NOT IN (
		   SELECT path FROM recent_files ORDER BY seq DESC LIMIT ?
		 )`,
		s.limit,
	)
	if err != nil {
		return fmt.Errorf("trim: %w", err)
	}
	return tx.Commit()
}

// List returns the entries, most recent first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT path, reader, opened_at FROM recent_files ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var openedAt int64
		if err := rows.Scan(&e.Path, &e.Reader, &openedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		e.OpenedAt = fromMillis(openedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove drops path from the list. Removing an unknown path is a no-op.
func (s *Store) Remove(ctx context.Context, path string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM recent_files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Clear empties the list.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM recent_files`); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}
