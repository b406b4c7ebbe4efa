package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/fibnas/md-echo/internal/shell"
	"github.com/fibnas/md-echo/internal/theme"
)

// confirmModal offers save, discard or cancel for a destructive intent.
type confirmModal struct {
	src      *shell.Prompt
	selected int
	box      lipglossv2.Style
	th       theme.Theme
}

func newConfirmModal(p *shell.Prompt, th theme.Theme, termW, termH int) *confirmModal {
	m := &confirmModal{src: p, th: th}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *confirmModal) resizeForTerm(termW, termH int) {
	box, _, _ := modalBox(m.th.AccentColor(), termW, termH, 0.5, 0.2, 46, 7)
	m.box = box.Height(7)
}

// update returns the chosen answer once the user commits to one.
func (m *confirmModal) update(msg tea.Msg) (shell.Choice, bool) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
	case tea.KeyMsg:
		switch x.String() {
		case "left", "shift+tab", "h":
			m.selected = (m.selected + len(m.src.Options) - 1) % len(m.src.Options)
		case "right", "tab", "l":
			m.selected = (m.selected + 1) % len(m.src.Options)
		case "enter":
			return shell.Choice(m.selected), true
		case "s", "y":
			return shell.ChoiceSave, true
		case "d", "n":
			return shell.ChoiceDiscard, true
		case "c", "esc":
			return shell.ChoiceCancel, true
		}
	}
	return 0, false
}

func (m *confirmModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.src.Title)
	buttons := make([]string, len(m.src.Options))
	for i, o := range m.src.Options {
		st := lipgloss.NewStyle().Padding(0, 1)
		if i == m.selected {
			st = m.th.Selected().Padding(0, 1)
		}
		buttons[i] = st.Render(o)
	}
	help := lipgloss.NewStyle().Faint(true).Render("←/→ choose • enter=confirm • esc=cancel")
	body := strings.Join([]string{
		header,
		m.src.Message,
		"",
		strings.Join(buttons, "  "),
		"",
		help,
	}, "\n")
	return m.box.Render(body)
}
