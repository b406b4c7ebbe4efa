package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points every XDG location at a temp dir and returns it.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("MD_ECHO_SESSION_ENABLED", "false")
	return tmp
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigGenerateWritesFile(t *testing.T) {
	tmp := isolate(t)
	path := filepath.Join(tmp, "out", "config.toml")

	out, err := run(t, "config", "generate", "-o", path)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Fatalf("unexpected output: %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[tools]") {
		t.Fatalf("config missing tools section:\n%s", data)
	}

	if _, err := run(t, "config", "generate", "-o", path); err == nil {
		t.Fatal("expected refusal to overwrite without flag")
	}
	out, err = run(t, "config", "generate", "-o", path, "--overwrite")
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if !strings.Contains(out, "Backup: "+path+".bak") {
		t.Fatalf("expected backup in output: %q", out)
	}
}

func TestConfigGenerateUpdate(t *testing.T) {
	tmp := isolate(t)
	path := filepath.Join(tmp, "config.toml")
	if err := os.WriteFile(path, []byte("[theme]\nbase = \"light\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "config", "generate", "-o", path, "--update"); err != nil {
		t.Fatalf("update: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `base = "light"`) || !strings.Contains(string(data), "line_height") {
		t.Fatalf("update lost or missed keys:\n%s", data)
	}

	out, err := run(t, "config", "generate", "-o", path, "--update")
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if !strings.Contains(out, "already up to date") {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := run(t, "config", "generate", "-o", path, "--update", "--overwrite"); err == nil {
		t.Fatal("expected conflicting flags to fail")
	}
}

func TestConfigCheck(t *testing.T) {
	tmp := isolate(t)
	good := filepath.Join(tmp, "good.toml")
	bad := filepath.Join(tmp, "bad.toml")
	_ = os.WriteFile(good, []byte("[theme]\nbase = \"dark\"\n"), 0o600)
	_ = os.WriteFile(bad, []byte("[theme]\nbase = \"blue\"\naccent = \"nope\"\n"), 0o600)

	out, err := run(t, "--config", good, "config", "check")
	if err != nil {
		t.Fatalf("check good: %v", err)
	}
	if !strings.Contains(out, "Config OK") {
		t.Fatalf("unexpected output: %q", out)
	}

	_, err = run(t, "--config", bad, "config", "check")
	if err == nil {
		t.Fatal("expected invalid config")
	}
	if !strings.Contains(err.Error(), "theme.base") || !strings.Contains(err.Error(), "theme.accent") {
		t.Fatalf("error should name both problems: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	tmp := isolate(t)
	out, err := run(t, "config", "path")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	want := filepath.Join(tmp, "config", "md-echo", "config.toml")
	if !strings.Contains(out, want) {
		t.Fatalf("expected %s in %q", want, out)
	}
	if !strings.Contains(out, filepath.Join(tmp, "data", "md-echo")) {
		t.Fatalf("expected data dir in %q", out)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "md-echo") {
		t.Fatalf("completion script does not mention the command")
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Fatal("expected unsupported shell error")
	}
}

func TestRootNeedsTerminal(t *testing.T) {
	isolate(t)
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()
	stdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = stdin }()

	_, err = run(t)
	if !errors.Is(err, ErrNoTerminal) {
		t.Fatalf("expected ErrNoTerminal, got %v", err)
	}
}

func TestRootRejectsExtraArgs(t *testing.T) {
	isolate(t)
	if _, err := run(t, "a.md", "b.md"); err == nil {
		t.Fatal("expected error for two files")
	}
}
