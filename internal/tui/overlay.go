package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

// renderOverlay composes a centered modal on top of the given base view string.
func (m model) renderOverlay(base, fg string) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	overlayW, overlayH := lipgloss.Width(fg), lipgloss.Height(fg)
	x := max(0, (termW-overlayW)/2)
	y := max(0, (termH-overlayH)/2)

	dimBase := lipgloss.NewStyle().Faint(true).Render(base)

	baseLayer := lipgloss.NewLayer(dimBase).
		Width(termW).
		Height(termH)
	fgLayer := lipgloss.NewLayer(fg).
		Width(overlayW).
		Height(overlayH).
		X(x).
		Y(y)

	return lipgloss.NewCanvas(baseLayer, fgLayer).Render()
}

// modalBox sizes a bordered modal to a share of the terminal.
func modalBox(accent string, termW, termH int, wShare, hShare float64, minW, minH int) (lipgloss.Style, int, int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * wShare)
	if termW < 80 {
		w = termW - 4
	}
	w = max(w, min(minW, termW-2))
	h := int(float64(termH) * hShare)
	if termH < 20 {
		h = termH - 2
	}
	h = max(h, min(minH, termH-1))
	box := lipgloss.NewStyle().
		Width(w).
		Height(h).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(accent))
	return box, w, h
}
