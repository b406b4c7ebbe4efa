package filetree

import (
	"context"
	"errors"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by Wait once the watcher is closed.
var ErrWatcherClosed = errors.New("watcher closed")

// Watcher reports structural changes in the directories shown by a Tree.
type Watcher struct {
	fsw     *fsnotify.Watcher
	watched map[string]bool
}

func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fsw: fsw, watched: map[string]bool{}}, nil
}

// Sync makes the watched set equal to dirs. Directories that cannot be
// watched are skipped; the first such error is returned.
func (w *Watcher) Sync(dirs []string) error {
	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		want[d] = true
	}
	for d := range w.watched {
		if !want[d] {
			_ = w.fsw.Remove(d)
			delete(w.watched, d)
		}
	}
	var firstErr error
	for d := range want {
		if w.watched[d] {
			continue
		}
		if err := w.fsw.Add(d); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		w.watched[d] = true
	}
	return firstErr
}

// Wait blocks until an entry is created, removed or renamed in a watched
// directory. Writes and mode changes are ignored.
func (w *Watcher) Wait(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return "", ErrWatcherClosed
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				return ev.Name, nil
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return "", ErrWatcherClosed
			}
			return "", err
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
