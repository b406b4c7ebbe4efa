package wire

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fibnas/md-echo/internal/config"
	"github.com/fibnas/md-echo/internal/session"
	"github.com/fibnas/md-echo/internal/tools"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      config.Config
	Log      *log.Logger
	Sessions session.Store
	Runner   *tools.Runner

	logFile io.Closer
}

// BuildApp wires dependencies with the provided config. The log goes to
// cfg.LogFile so it never draws over the full-screen UI; stderr is the
// fallback when the file cannot be opened.
func BuildApp(ctx context.Context, cfg config.Config) (*App, error) {
	logger, closer := openLog(cfg.LogFile)

	sessions, err := session.Open(ctx, cfg.SessionDBPath(), cfg.Session.Enabled)
	if err != nil {
		logger.Printf("session store %s: %v; continuing without history", cfg.SessionDBPath(), err)
		sessions = session.NewMemStore()
	}

	return &App{
		Cfg:      cfg,
		Log:      logger,
		Sessions: sessions,
		Runner:   tools.NewRunner(cfg.WorkingDir, logger),
		logFile:  closer,
	}, nil
}

// Close releases the session store and the log file.
func (a *App) Close() error {
	var err error
	if a.Sessions != nil {
		err = a.Sessions.Close()
	}
	if a.logFile != nil {
		if cerr := a.logFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func openLog(path string) (*log.Logger, io.Closer) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err == nil {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err == nil {
				return log.New(f, "md-echo ", log.LstdFlags), f
			}
			fmt.Fprintf(os.Stderr, "md-echo: log file %s: %v\n", path, err)
		}
	}
	return log.New(os.Stderr, "md-echo ", log.LstdFlags), nil
}
