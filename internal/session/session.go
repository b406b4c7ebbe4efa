// Package session remembers recently opened files and where the cursor was.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Visit is the last known state of a file. Fingerprint is the content digest
// at the time Line was recorded.
type Visit struct {
	Path        string
	Line        int
	Fingerprint string
	OpenedAt    time.Time
}

// Store persists visits.
type Store interface {
	Record(ctx context.Context, v Visit) error
	Lookup(ctx context.Context, path string) (Visit, error)
	Recent(ctx context.Context, limit int) ([]string, error)
	Close() error
}

// Open returns the sqlite store at path, or an in-memory store when disabled.
func Open(ctx context.Context, path string, enabled bool) (Store, error) {
	if !enabled {
		return NewMemStore(), nil
	}
	s, err := openSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RestoreLine returns the recorded line when the file content is unchanged
// since it was recorded.
func RestoreLine(v Visit, fingerprint string) (int, bool) {
	if v.Fingerprint == "" || v.Fingerprint != fingerprint {
		return 0, false
	}
	return v.Line, true
}
