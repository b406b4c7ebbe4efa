package document

import (
	"strings"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// Display returns content as handed to the editor widget: one "\n" per line
// and no stray carriage returns. Line i of the result is line i of content.
func Display(content string) string {
	s := strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "")
}

// ApplyEdit folds an editor change into the buffer. before and after are the
// widget's text around one update; before must describe the current content
// line for line (see Display). Lines the edit did not touch keep their exact
// bytes, so line endings, tabs and undecodable bytes survive. New lines take
// the buffer's line ending.
func (d *Document) ApplyEdit(before, after string) {
	if before == after {
		return
	}
	d.SetContent(mergeLines(d.content, before, after))
}

func mergeLines(content, before, after string) string {
	eol := lineEnding(content)
	orig := splitLines(content)
	if len(orig) != len(splitLines(before)) {
		return withLineEnding(after, eol)
	}

	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(before, after)
	diffs := d.DiffCharsToLines(d.DiffMain(a, b, false), lines)

	var out strings.Builder
	i := 0
	for _, df := range diffs {
		switch df.Type {
		case dmp.DiffEqual:
			for range splitLines(df.Text) {
				out.WriteString(orig[i])
				i++
			}
		case dmp.DiffDelete:
			i += len(splitLines(df.Text))
		case dmp.DiffInsert:
			out.WriteString(withLineEnding(df.Text, eol))
		}
	}
	return out.String()
}

// splitLines splits s after every "\n"; a final line without one is kept.
func splitLines(s string) []string {
	var out []string
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
	}
	return out
}

func lineEnding(s string) string {
	if strings.Contains(s, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

func withLineEnding(s, eol string) string {
	if eol == "\n" {
		return s
	}
	return strings.ReplaceAll(s, "\n", eol)
}
