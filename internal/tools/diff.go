package tools

import (
	"strings"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// changeSummary counts added and removed lines between before and after.
func changeSummary(before, after string) (added, removed int) {
	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(before, after)
	diffs := d.DiffMain(a, b, false)
	diffs = d.DiffCharsToLines(diffs, lines)
	for _, df := range diffs {
		switch df.Type {
		case dmp.DiffInsert:
			added += countLines(df.Text)
		case dmp.DiffDelete:
			removed += countLines(df.Text)
		}
	}
	return added, removed
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
