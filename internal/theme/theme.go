// Package theme turns the configured hex colors into lipgloss styles.
//
// Colors are "#RRGGBB" or "#AARRGGBB" with the alpha byte first; the leading
// '#' is optional. Terminals cannot draw translucent cells, so alpha is
// blended over the background.
package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	Dark  = "dark"
	Light = "light"
)

// Colors are the raw configured values; empty means unset.
type Colors struct {
	Background string
	Panel      string
	Text       string
	Accent     string
	Hyperlink  string
}

// Theme holds resolved "#rrggbb" colors; empty fields use terminal defaults.
type Theme struct {
	Base       string
	Background string
	Panel      string
	Text       string
	Accent     string
	Hyperlink  string
}

// ParseColor parses an RGB or ARGB hex color.
func ParseColor(s string) (colorful.Color, uint8, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	alpha := uint8(0xff)
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[:2], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("invalid color %q", s)
		}
		alpha = uint8(a)
		hex = hex[2:]
	default:
		return colorful.Color{}, 0, fmt.Errorf("invalid color %q: want 6 or 8 hex digits", s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return colorful.Color{}, 0, fmt.Errorf("invalid color %q", s)
	}
	return c, alpha, nil
}

// New resolves configured colors on top of the base palette. Unparsable
// colors are ignored.
func New(base string, c Colors) Theme {
	base = strings.ToLower(strings.TrimSpace(base))
	if base != Light {
		base = Dark
	}
	t := Theme{Base: base}

	backdrop := defaultBackdrop(base)
	if bg, ok := resolve(c.Background, backdrop); ok {
		t.Background = bg
		t.Panel = bg
		backdrop, _ = colorful.Hex(bg)
	}
	if p, ok := resolve(c.Panel, backdrop); ok {
		t.Panel = p
	}
	if tx, ok := resolve(c.Text, backdrop); ok {
		t.Text = tx
	}
	if a, ok := resolve(c.Accent, backdrop); ok {
		t.Accent = a
		t.Hyperlink = a
	}
	if h, ok := resolve(c.Hyperlink, backdrop); ok {
		t.Hyperlink = h
	}
	return t
}

func defaultBackdrop(base string) colorful.Color {
	if base == Light {
		c, _ := colorful.Hex("#f8f8f8")
		return c
	}
	c, _ := colorful.Hex("#1b1b1b")
	return c
}

func resolve(s string, backdrop colorful.Color) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	c, alpha, err := ParseColor(s)
	if err != nil {
		return "", false
	}
	if alpha < 0xff {
		c = backdrop.BlendRgb(c, float64(alpha)/255.0)
	}
	return c.Clamped().Hex(), true
}

func color(hex, fallback string) lipgloss.TerminalColor {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	if fallback != "" {
		return lipgloss.Color(fallback)
	}
	return lipgloss.NoColor{}
}

// AccentColor returns the accent as a color string usable by any lipgloss version.
func (t Theme) AccentColor() string {
	if t.Accent != "" {
		return t.Accent
	}
	return "63"
}

// Pane styles a bordered panel; the focused one gets the accent border.
func (t Theme) Pane(focused bool) lipgloss.Style {
	border := color("", "240")
	if focused {
		border = color(t.Accent, "63")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(color(t.Panel, "")).
		Foreground(color(t.Text, ""))
}

// Selected styles the highlighted row of a list.
func (t Theme) Selected() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("229")).
		Background(color(t.Accent, "57"))
}

// Current styles the tree row of the open file.
func (t Theme) Current() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(color(t.Hyperlink, "212"))
}

func (t Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Faint(true)
}

// Status styles the bottom bar.
func (t Theme) Status() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(color(t.Background, "236")).
		Foreground(color(t.Text, "252")).
		Padding(0, 1)
}

func (t Theme) Dirty() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
}

func (t Theme) Clean() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
}
