package filetree

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ListFiles returns regular files below root, skipping hidden directories,
// stopping after limit files when limit > 0.
func ListFiles(root string, limit int) []string {
	var out []string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && p != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	return out
}

// Candidates merges recent files (first) with listed files, dropping
// duplicates.
func Candidates(recent, files []string) []string {
	seen := make(map[string]bool, len(recent)+len(files))
	out := make([]string, 0, len(recent)+len(files))
	for _, group := range [][]string{recent, files} {
		for _, p := range group {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// Match returns the top n candidates for input, best first. An empty input
// returns the candidates unchanged (capped at n).
func Match(input string, candidates []string, n int) []string {
	if input == "" {
		if n > 0 && len(candidates) > n {
			return candidates[:n]
		}
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}

// Display shortens p to a path relative to root when it lies below it.
func Display(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return p
}
