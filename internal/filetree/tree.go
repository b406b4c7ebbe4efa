// Package filetree lists the working directory for the side panel.
package filetree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Row is one visible line of the tree. Err is set on rows standing in for a
// directory that could not be read.
type Row struct {
	Path     string
	Name     string
	Depth    int
	Dir      bool
	Expanded bool
	Err      string
}

// Walk lists root and every expanded directory below it, depth first.
// Directories come before files; each group is sorted by path. The root is
// always expanded and is not itself a row.
func Walk(root string, expanded map[string]bool) []Row {
	var rows []Row
	walk(root, 0, expanded, &rows)
	return rows
}

func walk(dir string, depth int, expanded map[string]bool, rows *[]Row) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		*rows = append(*rows, Row{
			Path:  dir,
			Name:  filepath.Base(dir),
			Depth: depth,
			Err:   fmt.Sprintf("Cannot read %s: %v", dir, err),
		})
		return
	}

	var dirs, files []Row
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		isDir := e.IsDir()
		if e.Type()&os.ModeSymlink != 0 {
			if fi, err := os.Stat(p); err == nil {
				isDir = fi.IsDir()
			}
		}
		r := Row{Path: p, Name: e.Name(), Depth: depth, Dir: isDir}
		if isDir {
			r.Expanded = expanded[p]
			dirs = append(dirs, r)
		} else {
			files = append(files, r)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Path < dirs[j].Path })
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	for _, d := range dirs {
		*rows = append(*rows, d)
		if d.Expanded {
			walk(d.Path, depth+1, expanded, rows)
		}
	}
	*rows = append(*rows, files...)
}

// Tree is the navigable state of the panel.
type Tree struct {
	root     string
	expanded map[string]bool
	rows     []Row
	cursor   int
}

func New(root string) *Tree {
	t := &Tree{expanded: map[string]bool{}}
	t.SetRoot(root)
	return t
}

// SetRoot switches to a new root and collapses everything.
func (t *Tree) SetRoot(root string) {
	t.root = root
	t.expanded = map[string]bool{}
	t.cursor = 0
	t.Refresh()
}

func (t *Tree) Root() string { return t.root }

// Refresh re-reads the expanded directories, keeping the cursor on the same
// path when it still exists.
func (t *Tree) Refresh() {
	var keep string
	if r, ok := t.Selected(); ok {
		keep = r.Path
	}
	t.rows = Walk(t.root, t.expanded)
	t.cursor = 0
	for i, r := range t.rows {
		if r.Path == keep {
			t.cursor = i
			break
		}
	}
}

func (t *Tree) Rows() []Row { return t.rows }

func (t *Tree) Cursor() int { return t.cursor }

// Move shifts the cursor by delta, clamped to the rows.
func (t *Tree) Move(delta int) {
	t.cursor += delta
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *Tree) Selected() (Row, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return Row{}, false
	}
	return t.rows[t.cursor], true
}

// Toggle expands or collapses the directory under the cursor.
func (t *Tree) Toggle() bool {
	r, ok := t.Selected()
	if !ok || !r.Dir {
		return false
	}
	if t.expanded[r.Path] {
		for p := range t.expanded {
			if p == r.Path || isBelow(p, r.Path) {
				delete(t.expanded, p)
			}
		}
	} else {
		t.expanded[r.Path] = true
	}
	t.Refresh()
	return true
}

// Dirs returns the root and every expanded directory.
func (t *Tree) Dirs() []string {
	out := []string{t.root}
	for p := range t.expanded {
		out = append(out, p)
	}
	sort.Strings(out[1:])
	return out
}

func isBelow(p, dir string) bool {
	return strings.HasPrefix(p, dir+string(filepath.Separator))
}
