package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, a, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), a)
	assert.Equal(t, "#ff8000", c.Hex())

	c, a, err = ParseColor("80ff8000")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), a)
	assert.Equal(t, "#ff8000", c.Hex())

	for _, bad := range []string{"", "#fff", "#12345", "#gggggg", "#1234567890"} {
		_, _, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewAppliesOverrides(t *testing.T) {
	th := New("LIGHT", Colors{Background: "#102030", Accent: "#00ff00"})
	assert.Equal(t, Light, th.Base)
	assert.Equal(t, "#102030", th.Background)
	assert.Equal(t, "#102030", th.Panel, "background also fills panels")
	assert.Equal(t, "#00ff00", th.Accent)
	assert.Equal(t, "#00ff00", th.Hyperlink, "accent doubles as link color")

	th = New("dark", Colors{Background: "#102030", Panel: "#aabbcc", Accent: "#00ff00", Hyperlink: "#0000ff"})
	assert.Equal(t, "#aabbcc", th.Panel)
	assert.Equal(t, "#0000ff", th.Hyperlink)
}

func TestNewIgnoresInvalidColors(t *testing.T) {
	th := New("solarized", Colors{Text: "nope", Accent: "#12"})
	assert.Equal(t, Dark, th.Base)
	assert.Empty(t, th.Text)
	assert.Empty(t, th.Accent)
	assert.Equal(t, "63", th.AccentColor())
}

func TestAlphaBlendsOverBackground(t *testing.T) {
	th := New("dark", Colors{Background: "#000000", Text: "00ffffff"})
	assert.Equal(t, "#000000", th.Text, "fully transparent text shows the background")

	th = New("dark", Colors{Background: "#000000", Text: "ffffffff"})
	assert.Equal(t, "#ffffff", th.Text)
}
