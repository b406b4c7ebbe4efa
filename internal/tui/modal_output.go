package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// outputModal shows the last tool report in a scrollable viewport.
type outputModal struct {
	vp      viewport.Model
	box     lipglossv2.Style
	accent  string
	content string
	status  string
}

func newOutputModal(report, accent string, termW, termH int) *outputModal {
	m := &outputModal{accent: accent, content: report}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *outputModal) resizeForTerm(termW, termH int) {
	box, w, h := modalBox(m.accent, termW, termH, 0.7, 0.7, 40, 10)
	m.box = box
	innerW := max(10, w-2-4)
	innerH := max(3, h-2-2-3) // title and help rows
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	m.vp.SetContent(m.content)
}

func (m *outputModal) update(msg tea.Msg) (*outputModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *outputModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Tool output")
	foot := "ctrl+y=copy • esc=close • ↑/↓ scroll"
	if m.status != "" {
		foot = m.status + " • " + foot
	}
	help := lipgloss.NewStyle().Faint(true).Render(foot)
	return m.box.Render(strings.Join([]string{header, "", m.vp.View(), "", help}, "\n"))
}
