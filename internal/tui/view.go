package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/fibnas/md-echo/internal/filetree"
)

// layout splits the screen into tree, editor and preview panes above a
// status row and a help row.
func (m *model) layout(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	m.width, m.height = w, h
	m.treeW = min(32, max(18, w/5))
	rest := max(20, w-m.treeW)
	m.editorW = rest / 2
	previewW := rest - m.editorW

	inner := m.paneInnerHeight()
	m.ta.SetWidth(max(10, m.editorW-2))
	m.ta.SetHeight(inner)
	m.vp.Width = max(10, previewW-2)
	m.vp.Height = inner
	m.help.Width = w
}

func (m model) paneInnerHeight() int {
	return max(3, m.height-2-2)
}

func (m model) View() string {
	if m.width <= 0 {
		return ""
	}
	inner := m.paneInnerHeight()
	previewW := m.width - m.treeW - m.editorW

	tree := m.th.Pane(m.focus == focusTree).
		Width(m.treeW - 2).
		Height(inner).
		Render(m.treeView(m.treeW-2, inner))
	editor := m.th.Pane(m.focus == focusEditor).
		Width(m.editorW - 2).
		Height(inner).
		Render(m.ta.View())
	prev := m.th.Pane(m.focus == focusPreview).
		Width(max(10, previewW-2)).
		Height(inner).
		Render(m.vp.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, tree, editor, prev)
	base := lipgloss.JoinVertical(lipgloss.Left, body, m.statusView(), m.help.View(m.keys))

	switch {
	case m.quickOpen != nil:
		return m.renderOverlay(base, m.quickOpen.View())
	case m.confirm != nil:
		return m.renderOverlay(base, m.confirm.View())
	case m.prompt != nil:
		return m.renderOverlay(base, m.prompt.View())
	case m.output != nil:
		return m.renderOverlay(base, m.output.View())
	}
	return base
}

// treeView renders the rows around the cursor with the root as header.
func (m model) treeView(w, h int) string {
	header := lipgloss.NewStyle().Bold(true).Render(truncate(filepath.Base(m.tree.Root())+"/", w))
	rows := m.tree.Rows()
	visible := max(1, h-1)
	start := 0
	if c := m.tree.Cursor(); c >= visible {
		start = c - visible + 1
	}
	end := min(len(rows), start+visible)

	lines := []string{header}
	current := m.sh.Document().Path()
	for i := start; i < end; i++ {
		lines = append(lines, m.treeRow(rows[i], i == m.tree.Cursor(), current, w))
	}
	return strings.Join(lines, "\n")
}

func (m model) treeRow(r filetree.Row, selected bool, current string, w int) string {
	indent := strings.Repeat("  ", r.Depth)
	var label string
	switch {
	case r.Err != "":
		return m.th.Muted().Render(truncate(indent+r.Err, w))
	case r.Dir && r.Expanded:
		label = indent + "▾ " + r.Name + "/"
	case r.Dir:
		label = indent + "▸ " + r.Name + "/"
	default:
		label = indent + "  " + r.Name
	}
	label = truncate(label, w)
	switch {
	case selected && m.focus == focusTree:
		return m.th.Selected().Render(label)
	case r.Path == current:
		return m.th.Current().Render(label)
	}
	return label
}

// statusView shows the dirty marker, file name, size, cursor line and either
// the busy spinner or the last notice.
func (m model) statusView() string {
	doc := m.sh.Document()
	marker := m.th.Clean().Render("○")
	if doc.Modified() {
		marker = m.th.Dirty().Render("●")
	}
	left := fmt.Sprintf("%s %s", marker, doc.Name())
	right := fmt.Sprintf("%d chars • Ln %d", utf8.RuneCountInString(doc.Content()), m.ta.Line()+1)
	if m.sh.Busy() {
		right = m.spin.View() + " running • " + right
	} else if n := m.sh.Notice(); n != "" {
		right = n + " • " + right
	}

	width := max(1, m.width-2)
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return m.th.Status().Width(m.width).Render(left + strings.Repeat(" ", space) + right)
}

func truncate(s string, w int) string {
	if w <= 0 || lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
