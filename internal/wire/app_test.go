package wire

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibnas/md-echo/internal/config"
	"github.com/fibnas/md-echo/internal/session"
)

func TestBuildAppWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		DataDir: dir,
		LogFile: filepath.Join(dir, "logs", "md-echo.log"),
		Session: config.SessionConfig{Enabled: true},
	}
	app, err := BuildApp(context.Background(), cfg)
	require.NoError(t, err)

	app.Log.Printf("hello %s", "log")
	require.NoError(t, app.Sessions.Record(context.Background(), session.Visit{Path: "/x.md"}))
	require.NoError(t, app.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello log"))
	_, err = os.Stat(cfg.SessionDBPath())
	assert.NoError(t, err)
}

func TestBuildAppWithoutSessions(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{DataDir: dir, LogFile: filepath.Join(dir, "x.log")}
	app, err := BuildApp(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	_, err = os.Stat(cfg.SessionDBPath())
	assert.True(t, os.IsNotExist(err))
	assert.NotNil(t, app.Runner)
}
