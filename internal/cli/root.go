package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fibnas/md-echo/internal/config"
	"github.com/fibnas/md-echo/internal/filetree"
	"github.com/fibnas/md-echo/internal/preview"
	"github.com/fibnas/md-echo/internal/scrollsync"
	"github.com/fibnas/md-echo/internal/shell"
	"github.com/fibnas/md-echo/internal/theme"
	"github.com/fibnas/md-echo/internal/tui"
	"github.com/fibnas/md-echo/internal/wire"
)

type ctxKey string

const (
	appKey   ctxKey = "app"
	viperKey ctxKey = "viper"
)

// ErrNoTerminal is returned when the editor is started without a terminal.
var ErrNoTerminal = errors.New("md-echo needs an interactive terminal")

// Execute builds the root command and runs it. SIGINT and SIGTERM cancel the
// command context, which also stops a running tool.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "md-echo [file]",
		Short:         "Markdown editor with live preview",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
				v.SetConfigType("toml")
			}
			// A broken file is not fatal: defaults stay in effect and the
			// error is logged once the logger exists.
			loadErr := config.Load(cmd.Context(), v)
			if loadErr != nil && !errors.Is(loadErr, config.ErrParse) {
				return loadErr
			}
			app, err := wire.BuildApp(cmd.Context(), config.FromViper(v))
			if err != nil {
				return err
			}
			if loadErr != nil {
				app.Log.Printf("config: %v; using defaults", loadErr)
			}
			ctx := context.WithValue(cmd.Context(), appKey, app)
			ctx = context.WithValue(ctx, viperKey, v)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return ErrNoTerminal
			}
			var file string
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				file = abs
			}
			return runEditor(cmd.Context(), getApp(cmd), getViper(cmd), file)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml)")

	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// runEditor starts the full-screen editor, optionally opening file.
func runEditor(ctx context.Context, app *wire.App, v *viper.Viper, file string) error {
	cfg := app.Cfg
	if created, err := config.EnsureFile(cfg.Path); err != nil {
		app.Log.Printf("config: write defaults to %s: %v", cfg.Path, err)
	} else if created {
		app.Log.Printf("config: wrote defaults to %s", cfg.Path)
	}
	if err := config.CheckConfigValidity(v); err != nil {
		app.Log.Printf("config problems:\n%v", err)
	}

	workDir := config.ResolveWorkingDir(cfg)
	th := theme.New(cfg.Theme.Base, theme.Colors{
		Background: cfg.Theme.Background,
		Panel:      cfg.Theme.Panel,
		Text:       cfg.Theme.Text,
		Accent:     cfg.Theme.Accent,
		Hyperlink:  cfg.Theme.Hyperlink,
	})

	sh := shell.New(ctx, shell.Options{
		WorkDir:  workDir,
		Tools:    cfg.Tools,
		Sessions: app.Sessions,
		Log:      app.Log,
		PersistWorkDir: func(dir string) error {
			return config.SaveWorkingDir(cfg.Path, dir)
		},
	})
	sh.OpenInitial(file)

	watcher, err := filetree.NewWatcher()
	if err != nil {
		app.Log.Printf("watch: %v; tree refreshes on navigation only", err)
	} else {
		defer watcher.Close()
	}

	app.Log.Printf("start: workdir=%s file=%q", workDir, file)
	return tui.Run(ctx, tui.Options{
		Shell:       sh,
		Runner:      app.Runner,
		Theme:       th,
		Preview:     preview.New(th, cfg.Preview.Style),
		Sync:        scrollsync.New(cfg.Preview.LineHeight),
		Watcher:     watcher,
		RecentLimit: cfg.Session.RecentLimit,
		Log:         app.Log,
	})
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

func getViper(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(viperKey).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}
