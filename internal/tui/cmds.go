package tui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fibnas/md-echo/internal/filetree"
	"github.com/fibnas/md-echo/internal/shell"
	"github.com/fibnas/md-echo/internal/tools"
)

// toolResultMsg carries a finished tool run back to Update.
type toolResultMsg struct {
	out tools.Outcome
	dur time.Duration
}

// treeChangedMsg reports a create/remove/rename in a watched directory.
type treeChangedMsg struct {
	path string
	err  error
}

// copyResultMsg conveys the outcome of copying the tool report.
type copyResultMsg struct{ err error }

// toolCmd runs job off the render loop. The runner is copied so the job's
// working directory does not leak into later runs.
func toolCmd(ctx context.Context, runner *tools.Runner, job shell.Job) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		r := *runner
		r.Dir = job.Dir
		out := r.Run(ctx, job.Invocation, job.Snapshot)
		return toolResultMsg{out: out, dur: time.Since(start)}
	}
}

// watchCmd waits for the next structural change in the tree.
func watchCmd(ctx context.Context, w *filetree.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := w.Wait(ctx)
		return treeChangedMsg{path: p, err: err}
	}
}

// stopWatching reports errors after which waiting again is pointless.
func stopWatching(err error) bool {
	return errors.Is(err, filetree.ErrWatcherClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: clipboard.WriteAll(text)}
	}
}
