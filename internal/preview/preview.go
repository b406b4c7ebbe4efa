// Package preview renders the buffer as styled terminal markdown.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"

	"github.com/fibnas/md-echo/internal/theme"
)

// Renderer wraps a glamour renderer and keeps the last output, since the
// preview is redrawn every frame but the source rarely changes.
type Renderer struct {
	style ansi.StyleConfig
	width int
	tr    *glamour.TermRenderer

	lastSrc string
	lastOut string
	cached  bool
}

// New picks the glamour style named by style, or the one matching the theme
// base when style is empty or unknown, and applies the theme's text and link
// colors on top.
func New(th theme.Theme, style string) *Renderer {
	return &Renderer{style: StyleFor(th, style)}
}

// StyleFor resolves the glamour style config for a theme.
func StyleFor(th theme.Theme, style string) ansi.StyleConfig {
	name := strings.ToLower(strings.TrimSpace(style))
	base, ok := styles.DefaultStyles[name]
	if !ok {
		base = &styles.DarkStyleConfig
		if th.Base == theme.Light {
			base = &styles.LightStyleConfig
		}
	}
	cfg := *base
	if th.Text != "" {
		text := th.Text
		cfg.Document.Color = &text
	}
	if th.Hyperlink != "" {
		link := th.Hyperlink
		cfg.Link.Color = &link
		cfg.LinkText.Color = &link
	}
	return cfg
}

// Render returns src rendered for the given width.
func (r *Renderer) Render(src string, width int) (string, error) {
	if width < 10 {
		width = 10
	}
	src = Normalize(src)
	if r.tr == nil || width != r.width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStyles(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", fmt.Errorf("failed to create renderer: %w", err)
		}
		r.tr = tr
		r.width = width
		r.cached = false
	}
	if r.cached && src == r.lastSrc {
		return r.lastOut, nil
	}
	out, err := r.tr.Render(src)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	r.lastSrc, r.lastOut, r.cached = src, out, true
	return out, nil
}

// Normalize converts CRLF line endings so rendered lines line up with the
// editor's.
func Normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
