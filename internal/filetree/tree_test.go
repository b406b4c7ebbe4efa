package filetree

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"b-dir", "a-dir", "a-dir/inner"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	for _, f := range []string{"z.md", "c.md", "a-dir/note.md", "a-dir/inner/deep.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644))
	}
	return root
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestWalkOrdersDirsFirst(t *testing.T) {
	root := mkTree(t)
	rows := Walk(root, nil)
	assert.Equal(t, []string{"a-dir", "b-dir", "c.md", "z.md"}, names(rows))
	assert.True(t, rows[0].Dir)
	assert.False(t, rows[2].Dir)
}

func TestWalkExpanded(t *testing.T) {
	root := mkTree(t)
	rows := Walk(root, map[string]bool{filepath.Join(root, "a-dir"): true})
	assert.Equal(t, []string{"a-dir", "inner", "note.md", "b-dir", "c.md", "z.md"}, names(rows))
	assert.Equal(t, 1, rows[1].Depth)
	assert.True(t, rows[0].Expanded)
}

func TestWalkUnreadableRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	rows := Walk(missing, nil)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Err, "Cannot read "+missing+":")
}

func TestTreeNavigation(t *testing.T) {
	root := mkTree(t)
	tr := New(root)
	assert.Equal(t, root, tr.Root())

	r, ok := tr.Selected()
	require.True(t, ok)
	assert.Equal(t, "a-dir", r.Name)

	require.True(t, tr.Toggle())
	assert.Len(t, tr.Rows(), 6)
	assert.Equal(t, []string{root, filepath.Join(root, "a-dir")}, tr.Dirs())

	tr.Move(1)
	require.True(t, tr.Toggle())
	assert.Len(t, tr.Rows(), 7)

	// collapsing the parent collapses its children too
	tr.Move(-10)
	require.True(t, tr.Toggle())
	assert.Len(t, tr.Rows(), 4)
	assert.Equal(t, []string{root}, tr.Dirs())

	tr.Move(100)
	r, _ = tr.Selected()
	assert.Equal(t, "z.md", r.Name)
	assert.False(t, tr.Toggle(), "files do not toggle")
}

func TestTreeRefreshKeepsSelection(t *testing.T) {
	root := mkTree(t)
	tr := New(root)
	tr.Move(3)
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), nil, 0o644))
	tr.Refresh()
	r, _ := tr.Selected()
	assert.Equal(t, "z.md", r.Name)
}

func TestQuickOpen(t *testing.T) {
	root := mkTree(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), nil, 0o644))

	files := ListFiles(root, 0)
	assert.Len(t, files, 4)
	for _, f := range files {
		assert.NotContains(t, f, ".git")
	}
	assert.Len(t, ListFiles(root, 2), 2)

	recent := []string{filepath.Join(root, "z.md"), "/elsewhere/x.md"}
	all := Candidates(recent, files)
	assert.Equal(t, recent[0], all[0])
	assert.Len(t, all, 5)

	got := Match("deep", all, 5)
	require.NotEmpty(t, got)
	assert.Equal(t, filepath.Join(root, "a-dir", "inner", "deep.md"), got[0])
	assert.Nil(t, Match("qqqqq", all, 5))
	assert.Len(t, Match("", all, 2), 2)

	assert.Equal(t, filepath.Join("a-dir", "note.md"), Display(root, filepath.Join(root, "a-dir", "note.md")))
	assert.Equal(t, "/elsewhere/x.md", Display(root, "/elsewhere/x.md"))
}

func TestWatcherReportsCreate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fsnotify timing differs on windows")
	}
	root := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Sync([]string{root}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		_ = os.WriteFile(filepath.Join(root, "new.md"), nil, 0o644)
	}()
	name, err := w.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "new.md"), name)

	require.NoError(t, w.Sync(nil))
	assert.Empty(t, w.watched)
}
