package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the global bindings. Terminals rarely report ctrl+shift
// combinations distinctly, so every one of them also answers to alt.
type keyMap struct {
	Quit      key.Binding
	New       key.Binding
	Open      key.Binding
	Save      key.Binding
	SaveAs    key.Binding
	Lint      key.Binding
	Format    key.Binding
	QuickOpen key.Binding
	WorkDir   key.Binding
	Focus     key.Binding
	Copy      key.Binding
	Close     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
		New:       key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
		Open:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SaveAs:    key.NewBinding(key.WithKeys("ctrl+shift+s", "alt+s"), key.WithHelp("alt+s", "save as")),
		Lint:      key.NewBinding(key.WithKeys("ctrl+shift+l", "alt+l"), key.WithHelp("alt+l", "lint")),
		Format:    key.NewBinding(key.WithKeys("ctrl+shift+f", "alt+f"), key.WithHelp("alt+f", "format")),
		QuickOpen: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "quick open")),
		WorkDir:   key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "working dir")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		Copy:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.SaveAs, k.Open, k.QuickOpen, k.Lint, k.Format, k.Focus, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Open, k.QuickOpen, k.Save, k.SaveAs},
		{k.Lint, k.Format, k.WorkDir, k.Focus, k.Quit},
	}
}
