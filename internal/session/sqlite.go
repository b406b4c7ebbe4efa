package session

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteStore struct{ db *sql.DB }

func openSQLite(ctx context.Context, path string) (*sqliteStore, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteStore{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS visits (
  path TEXT PRIMARY KEY,
  line INTEGER NOT NULL,
  fingerprint TEXT NOT NULL,
  opened_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_opened ON visits(opened_at DESC);
`)
	return err
}

func (s *sqliteStore) Record(ctx context.Context, v Visit) error {
	if v.OpenedAt.IsZero() {
		v.OpenedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO visits (path, line, fingerprint, opened_at) VALUES (?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
  line = excluded.line,
  fingerprint = excluded.fingerprint,
  opened_at = excluded.opened_at`,
		v.Path, v.Line, v.Fingerprint, v.OpenedAt.UnixNano())
	return err
}

func (s *sqliteStore) Lookup(ctx context.Context, path string) (Visit, error) {
	var v Visit
	var opened int64
	err := s.db.QueryRowContext(ctx,
		`SELECT path, line, fingerprint, opened_at FROM visits WHERE path = ?`, path,
	).Scan(&v.Path, &v.Line, &v.Fingerprint, &opened)
	if errors.Is(err, sql.ErrNoRows) {
		return Visit{}, ErrNotFound
	}
	if err != nil {
		return Visit{}, err
	}
	v.OpenedAt = time.Unix(0, opened)
	return v, nil
}

func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]string, error) {
	q := `SELECT path FROM visits ORDER BY opened_at DESC, path ASC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
