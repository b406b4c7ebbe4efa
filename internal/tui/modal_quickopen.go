package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/fibnas/md-echo/internal/filetree"
	"github.com/fibnas/md-echo/internal/theme"
)

const quickOpenFileLimit = 5000

// quickOpenModal fuzzy-filters recent and working-directory files.
type quickOpenModal struct {
	input    textinput.Model
	labels   []string
	byLabel  map[string]string
	matches  []string
	selected int
	rows     int
	box      lipglossv2.Style
	th       theme.Theme
}

func newQuickOpenModal(root string, candidates []string, th theme.Theme, termW, termH int) *quickOpenModal {
	m := &quickOpenModal{th: th, byLabel: make(map[string]string, len(candidates))}
	for _, p := range candidates {
		label := filetree.Display(root, p)
		if _, dup := m.byLabel[label]; dup {
			continue
		}
		m.byLabel[label] = p
		m.labels = append(m.labels, label)
	}
	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.Placeholder = "file name"
	m.input.Focus()
	m.resizeForTerm(termW, termH)
	m.refilter()
	return m
}

func (m *quickOpenModal) resizeForTerm(termW, termH int) {
	box, w, h := modalBox(m.th.AccentColor(), termW, termH, 0.6, 0.6, 46, 10)
	m.box = box
	m.rows = max(1, h-2-2-4)
	m.input.Width = max(12, w-2-4-lipgloss.Width(m.input.Prompt))
}

func (m *quickOpenModal) refilter() {
	m.matches = filetree.Match(m.input.Value(), m.labels, m.rows)
	if m.selected >= len(m.matches) {
		m.selected = max(0, len(m.matches)-1)
	}
}

// choice returns the full path of the highlighted match.
func (m *quickOpenModal) choice() (string, bool) {
	if m.selected < 0 || m.selected >= len(m.matches) {
		return "", false
	}
	p, ok := m.byLabel[m.matches[m.selected]]
	return p, ok
}

func (m *quickOpenModal) update(msg tea.Msg) (*quickOpenModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		m.refilter()
		return m, nil
	case tea.KeyMsg:
		switch x.String() {
		case "up", "ctrl+k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "ctrl+j":
			if m.selected < len(m.matches)-1 {
				m.selected++
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.selected = 0
		m.refilter()
	}
	return m, cmd
}

func (m *quickOpenModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Quick open")
	lines := []string{header, "", m.input.View(), ""}
	if len(m.matches) == 0 {
		lines = append(lines, m.th.Muted().Render("no matches"))
	}
	for i, label := range m.matches {
		if i == m.selected {
			lines = append(lines, m.th.Selected().Render(label))
		} else {
			lines = append(lines, label)
		}
	}
	return m.box.Render(strings.Join(lines, "\n"))
}
