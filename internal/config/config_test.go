package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("XDG_DATA_HOME", filepath.Join(xdg, "data"))
	dir := filepath.Join(xdg, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.toml")
	if body != "" {
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	writeConfig(t, "")
	v := viper.New()
	if err := Load(context.Background(), v); err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := FromViper(v)
	if cfg.Theme.Base != "dark" {
		t.Fatalf("theme.base = %q", cfg.Theme.Base)
	}
	if !reflect.DeepEqual(cfg.Tools.Lint, DefaultLintCommand) {
		t.Fatalf("lint = %v", cfg.Tools.Lint)
	}
	if !reflect.DeepEqual(cfg.Tools.Format, DefaultFormatCommand) {
		t.Fatalf("format = %v", cfg.Tools.Format)
	}
	if cfg.Preview.LineHeight != 1 {
		t.Fatalf("line_height = %d", cfg.Preview.LineHeight)
	}
	if !strings.HasSuffix(cfg.DataDir, filepath.Join("data", appName)) {
		t.Fatalf("data_dir = %q", cfg.DataDir)
	}
	if cfg.LogFile != filepath.Join(cfg.DataDir, appName+".log") {
		t.Fatalf("log_file = %q", cfg.LogFile)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := writeConfig(t, `
[theme]
base = "Light"
accent = "#ff0000"

[tools]
lint = []
format = ["prettier", "--write"]
format_use_open_file = true

[preview]
line_height = 3
`)
	v := viper.New()
	if err := Load(context.Background(), v); err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := FromViper(v)
	if cfg.Path != path {
		t.Fatalf("path = %q, want %q", cfg.Path, path)
	}
	if cfg.Theme.Base != "light" || cfg.Theme.Accent != "#ff0000" {
		t.Fatalf("theme = %+v", cfg.Theme)
	}
	if cfg.Tools.Lint == nil || len(cfg.Tools.Lint) != 0 {
		t.Fatalf("explicit empty lint should stay empty, got %#v", cfg.Tools.Lint)
	}
	if !reflect.DeepEqual(cfg.Tools.Format, []string{"prettier", "--write"}) || !cfg.Tools.FormatUseOpenFile {
		t.Fatalf("tools = %+v", cfg.Tools)
	}
	if cfg.Preview.LineHeight != 3 {
		t.Fatalf("line_height = %d", cfg.Preview.LineHeight)
	}
}

func TestLoadParseErrorKeepsDefaults(t *testing.T) {
	writeConfig(t, "theme = [\n")
	v := viper.New()
	err := Load(context.Background(), v)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	cfg := FromViper(v)
	if cfg.Theme.Base != "dark" {
		t.Fatalf("defaults lost after parse error: %+v", cfg.Theme)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	writeConfig(t, "")
	t.Setenv("MD_ECHO_THEME_BASE", "light")
	v := viper.New()
	if err := Load(context.Background(), v); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := FromViper(v).Theme.Base; got != "light" {
		t.Fatalf("theme.base = %q", got)
	}
}

func TestRenderDefaultTOMLParses(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(RenderDefaultTOML())); err != nil {
		t.Fatalf("rendered defaults do not parse: %v", err)
	}
	if got := v.GetStringSlice("tools.lint"); !reflect.DeepEqual(got, DefaultLintCommand) {
		t.Fatalf("tools.lint = %v", got)
	}
	if got := v.GetString("theme.base"); got != "dark" {
		t.Fatalf("theme.base = %q", got)
	}
	if !v.GetBool("session.enabled") {
		t.Fatal("session.enabled should default to true")
	}
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	created, err := EnsureFile(path)
	if err != nil || !created {
		t.Fatalf("EnsureFile = %v, %v", created, err)
	}
	created, err = EnsureFile(path)
	if err != nil || created {
		t.Fatalf("second EnsureFile = %v, %v", created, err)
	}
}

func TestCheckConfigValidityValid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("data_dir", t.TempDir())
	v.Set("working_dir", t.TempDir())
	v.Set("theme.accent", "#80ff0000")

	if err := CheckConfigValidity(v); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", "")
	v.Set("working_dir", filepath.Join(t.TempDir(), "missing"))
	v.Set("theme.base", "sepia")
	v.Set("theme.text", "#12")
	v.Set("tools.lint", []string{})
	v.Set("preview.line_height", 0)
	v.Set("session.recent_limit", -1)

	err := CheckConfigValidity(v)
	if err == nil {
		t.Fatalf("expected error for invalid config")
	}

	msg := err.Error()
	expected := []string{
		"data_dir is required",
		"working_dir",
		"theme.base must be",
		"theme.text",
		"tools.lint must not be an empty list",
		"preview.line_height must be greater than 0",
		"session.recent_limit must not be negative",
	}
	for _, want := range expected {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to contain %q, got %q", want, msg)
		}
	}
}

func TestResolveWorkingDir(t *testing.T) {
	configured := t.TempDir()
	if got := ResolveWorkingDir(Config{WorkingDir: configured}); got != configured {
		t.Fatalf("configured dir ignored: %q", got)
	}

	legacy := t.TempDir()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(LegacySettingsPath(path), []byte(legacy+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := ResolveWorkingDir(Config{Path: path}); got != legacy {
		t.Fatalf("legacy settings ignored: %q", got)
	}

	wd, _ := os.Getwd()
	if got := ResolveWorkingDir(Config{WorkingDir: filepath.Join(legacy, "gone"), Path: path}); got != wd {
		t.Fatalf("invalid dir should fall back to cwd, got %q", got)
	}
}

func TestSaveWorkingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	dir := t.TempDir()
	if err := SaveWorkingDir(path, dir); err != nil {
		t.Fatalf("save: %v", err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := v.GetString("working_dir"); got != dir {
		t.Fatalf("working_dir = %q, want %q", got, dir)
	}
	if got := v.GetString("theme.base"); got != "dark" {
		t.Fatalf("other defaults lost: theme.base = %q", got)
	}

	err := SaveWorkingDir(path, filepath.Join(dir, "missing"))
	if !errors.Is(err, ErrInvalidWorkingDir) {
		t.Fatalf("expected ErrInvalidWorkingDir, got %v", err)
	}
}
