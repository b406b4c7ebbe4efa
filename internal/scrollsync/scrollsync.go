// Package scrollsync maps the editor cursor row onto a preview scroll offset.
//
// The mapping is one-directional and recomputed every frame: manual preview
// scrolling is overwritten on the next frame, and every preview line is
// assumed to be lineHeight rows tall. Rendered markdown (headings, code
// blocks, wrapped paragraphs) does not map 1:1 onto source lines, so the
// offset is an approximation.
package scrollsync

// Synchronizer holds the last observed cursor row.
type Synchronizer struct {
	line       int
	lineHeight int
}

// New returns a Synchronizer. A lineHeight below 1 is treated as 1.
func New(lineHeight int) *Synchronizer {
	if lineHeight < 1 {
		lineHeight = 1
	}
	return &Synchronizer{lineHeight: lineHeight}
}

// Observe records the cursor row, but only while the editor has focus.
func (s *Synchronizer) Observe(row int, focused bool) {
	if !focused {
		return
	}
	if row < 0 {
		row = 0
	}
	s.line = row
}

// Line returns the last recorded cursor row.
func (s *Synchronizer) Line() int { return s.line }

// LineHeight returns the assumed height of one preview line.
func (s *Synchronizer) LineHeight() int { return s.lineHeight }

// Offset returns the preview scroll target for this frame.
func (s *Synchronizer) Offset() int { return s.line * s.lineHeight }

// Reset moves the target back to the top, e.g. after a new document is loaded.
func (s *Synchronizer) Reset() { s.line = 0 }
