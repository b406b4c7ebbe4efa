package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayKeepsLineCount(t *testing.T) {
	in := "# Hi\r\n\n\tcode\r\nend\rx\n"
	out := Display(in)
	assert.Equal(t, "# Hi\n\n\tcode\nendx\n", out)
	assert.Equal(t, len(splitLines(in)), len(splitLines(out)))
}

func TestApplyEditKeepsUntouchedLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		before  string
		after   string
		want    string
	}{
		{
			name:    "crlf and tabs survive an edit elsewhere",
			content: "# Hi\r\n\n\tcode\r\nend\n",
			before:  "# Hi\n\n    code\nend\n",
			after:   "# Hi\nX\n    code\nend\n",
			want:    "# Hi\r\nX\r\n\tcode\r\nend\n",
		},
		{
			name:    "edited line takes the widget text",
			content: "a\r\n\tb\r\n",
			before:  "a\n    b\n",
			after:   "a\n    bc\n",
			want:    "a\r\n    bc\r\n",
		},
		{
			name:    "deleted line",
			content: "a\n\xffb\nc",
			before:  "a\nb\nc",
			after:   "a\nc",
			want:    "a\nc",
		},
		{
			name:    "invalid bytes on untouched line",
			content: "\xffb\nc",
			before:  "b\nc",
			after:   "b\ncd",
			want:    "\xffb\ncd",
		},
		{
			name:    "line count mismatch falls back to widget text",
			content: "a\rb\n",
			before:  "a\nb\n",
			after:   "a\nbc\n",
			want:    "a\nbc\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			d.SetContent(tt.content)
			d.ApplyEdit(tt.before, tt.after)
			assert.Equal(t, tt.want, d.Content())
		})
	}
}

func TestApplyEditWithoutChangeKeepsModified(t *testing.T) {
	d := New()
	d.SetContent("\tx\r\n")
	d.original = d.content
	d.modified = false

	d.ApplyEdit("    x\n", "    x\n")
	assert.False(t, d.Modified())
	assert.Equal(t, "\tx\r\n", d.Content())
}
