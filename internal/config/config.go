package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "md-echo"

var (
	// ErrParse wraps config files that exist but cannot be parsed.
	// Defaults stay in effect when Load returns it.
	ErrParse = errors.New("config parse error")
	// ErrInvalidWorkingDir is returned when a working directory is not a directory.
	ErrInvalidWorkingDir = errors.New("invalid working directory")
)

type ThemeConfig struct {
	Base       string
	Background string
	Panel      string
	Text       string
	Accent     string
	Hyperlink  string
}

// ToolsConfig holds tool argv lists. A nil command means "not configured",
// an empty one is a configuration error reported when the tool runs.
type ToolsConfig struct {
	Lint              []string
	LintUseOpenFile   bool
	Format            []string
	FormatUseOpenFile bool
}

type PreviewConfig struct {
	LineHeight int
	Style      string
}

type SessionConfig struct {
	Enabled     bool
	RecentLimit int
}

// Config is the resolved configuration.
type Config struct {
	Path       string
	WorkingDir string
	DataDir    string
	LogFile    string
	Theme      ThemeConfig
	Tools      ToolsConfig
	Preview    PreviewConfig
	Session    SessionConfig
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// A missing file is not an error. A file that cannot be parsed yields an
// error wrapping ErrParse, but v is still fully usable with defaults and env.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
	}

	applyDefaults(v)

	var parseErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
		default:
			parseErr = fmt.Errorf("%w: %s: %v", ErrParse, ConfigPath(v), err)
		}
	}

	// Environment variables: MD_ECHO_*
	v.SetEnvPrefix("md_echo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	if strings.TrimSpace(v.GetString("theme.base")) == "" {
		v.Set("theme.base", "dark")
	}
	return parseErr
}

// FromViper builds a Config from a loaded Viper instance.
func FromViper(v *viper.Viper) Config {
	dataDir := expandHome(v.GetString("data_dir"))
	logFile := expandHome(v.GetString("log_file"))
	if logFile == "" {
		logFile = filepath.Join(dataDir, appName+".log")
	}
	lineHeight := v.GetInt("preview.line_height")
	if lineHeight < 1 {
		lineHeight = 1
	}
	recent := v.GetInt("session.recent_limit")
	if recent < 0 {
		recent = 0
	}
	return Config{
		Path:       ConfigPath(v),
		WorkingDir: expandHome(strings.TrimSpace(v.GetString("working_dir"))),
		DataDir:    dataDir,
		LogFile:    logFile,
		Theme: ThemeConfig{
			Base:       strings.ToLower(strings.TrimSpace(v.GetString("theme.base"))),
			Background: v.GetString("theme.background"),
			Panel:      v.GetString("theme.panel"),
			Text:       v.GetString("theme.text"),
			Accent:     v.GetString("theme.accent"),
			Hyperlink:  v.GetString("theme.hyperlink"),
		},
		Tools: ToolsConfig{
			Lint:              stringList(v, "tools.lint"),
			LintUseOpenFile:   v.GetBool("tools.lint_use_open_file"),
			Format:            stringList(v, "tools.format"),
			FormatUseOpenFile: v.GetBool("tools.format_use_open_file"),
		},
		Preview: PreviewConfig{
			LineHeight: lineHeight,
			Style:      strings.TrimSpace(v.GetString("preview.style")),
		},
		Session: SessionConfig{
			Enabled:     v.GetBool("session.enabled"),
			RecentLimit: recent,
		},
	}
}

// stringList keeps the difference between an absent key (nil) and an
// explicitly empty list, which GetStringSlice collapses.
func stringList(v *viper.Viper, key string) []string {
	if v.Get(key) == nil {
		return nil
	}
	out := []string{}
	return append(out, v.GetStringSlice(key)...)
}

// ConfigPath returns the file Viper read, or the default location.
func ConfigPath(v *viper.Viper) string {
	if p := v.ConfigFileUsed(); p != "" {
		return p
	}
	return DefaultConfigPath()
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

// LegacySettingsPath is the plain-text file that held only the working
// directory before config.toml existed.
func LegacySettingsPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "settings.txt")
}

// defaultDataDir resolves $XDG_DATA_HOME/md-echo or ~/.local/share/md-echo.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// SessionDBPath returns the sqlite file of the session store.
func (c Config) SessionDBPath() string {
	return filepath.Join(c.DataDir, "session.db")
}

// EnsureFile writes the commented default config when path does not exist.
func EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(RenderDefaultTOML()), 0o600); err != nil {
		return false, err
	}
	return true, nil
}

// ResolveWorkingDir picks the working directory: the configured one if it is
// a directory, else the legacy settings file, else the process directory.
func ResolveWorkingDir(c Config) string {
	if isDir(c.WorkingDir) {
		return c.WorkingDir
	}
	if c.WorkingDir == "" && c.Path != "" {
		if data, err := os.ReadFile(LegacySettingsPath(c.Path)); err == nil {
			if cand := expandHome(strings.TrimSpace(string(data))); isDir(cand) {
				return cand
			}
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// SaveWorkingDir validates dir and persists it as working_dir in the config
// file at path, keeping the rest of the file intact.
func SaveWorkingDir(path, dir string) error {
	if !isDir(dir) {
		return fmt.Errorf("%w: %s", ErrInvalidWorkingDir, dir)
	}
	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	} else if errors.Is(err, fs.ErrNotExist) {
		existing = RenderDefaultTOML()
	} else {
		return err
	}
	updated, _ := SetTOMLValue(existing, "working_dir", dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(updated), 0o600)
}

func isDir(p string) bool {
	if p == "" {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") || p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
