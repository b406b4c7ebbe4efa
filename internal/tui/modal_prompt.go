package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/fibnas/md-echo/internal/shell"
)

// promptModal asks for a path on behalf of a shell prompt.
type promptModal struct {
	src    *shell.Prompt
	input  textinput.Model
	box    lipglossv2.Style
	accent string
}

func newPromptModal(p *shell.Prompt, accent string, termW, termH int) *promptModal {
	m := &promptModal{src: p, accent: accent}
	m.input = textinput.New()
	m.input.Prompt = "path: "
	m.input.Placeholder = "relative to the working directory"
	m.input.SetValue(p.Initial)
	m.input.CursorEnd()
	m.input.Focus()
	m.resizeForTerm(termW, termH)
	return m
}

func (m *promptModal) resizeForTerm(termW, termH int) {
	box, w, _ := modalBox(m.accent, termW, termH, 0.6, 0.2, 46, 7)
	m.box = box.Height(7)
	innerW := w - 2 - 4
	m.input.Width = max(12, innerW-lipgloss.Width(m.input.Prompt))
}

func (m *promptModal) value() string { return m.input.Value() }

func (m *promptModal) update(msg tea.Msg) (*promptModal, tea.Cmd) {
	if x, ok := msg.(tea.WindowSizeMsg); ok {
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *promptModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.src.Title)
	help := lipgloss.NewStyle().Faint(true).Render("enter=confirm • esc=cancel")
	return m.box.Render(strings.Join([]string{header, "", m.input.View(), "", help}, "\n"))
}
