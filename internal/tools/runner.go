package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
)

const (
	MsgEmptyCommand = "Configured tool command is empty."
	MsgSaveFirst    = "Save before running this tool on the current file, or disable *_use_open_file."
	MsgNoOpenFile   = "No file is currently open. Save the document first or disable *_use_open_file."
)

// Invocation describes one configured external tool.
type Invocation struct {
	Name            string
	Command         []string // argv; the target path is appended
	ModifiesContent bool
	UseOpenFile     bool
}

// Snapshot is the buffer state a run works against.
type Snapshot struct {
	Content  string
	Path     string
	Modified bool
}

// Outcome is what a run produced. Report is always set.
type Outcome struct {
	Report  string
	Ran     bool
	Success bool
	Target  string

	// Content holds the re-read target when Reread is true.
	Content string
	Reread  bool
}

// Runner executes tools. It never returns errors: every failure ends up in
// Outcome.Report.
type Runner struct {
	// Dir is the working directory for the child; ignored unless it is a directory.
	Dir string
	// TempDir holds temp targets; empty means os.TempDir().
	TempDir string
	Log     *log.Logger

	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewRunner returns a Runner executing in dir.
func NewRunner(dir string, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{Dir: dir, Log: logger, command: exec.CommandContext}
}

// Run resolves the target, executes the tool and, for content-modifying tools,
// re-reads the target. Temp targets are removed before Run returns.
func (r *Runner) Run(ctx context.Context, inv Invocation, snap Snapshot) Outcome {
	if inv.Command == nil {
		return Outcome{Report: fmt.Sprintf("No %s command configured. Add a [tools] %s entry to config.toml.", inv.Name, inv.Name)}
	}
	if len(inv.Command) == 0 || strings.TrimSpace(inv.Command[0]) == "" {
		return Outcome{Report: MsgEmptyCommand}
	}

	var target string
	if inv.UseOpenFile {
		if snap.Modified {
			return Outcome{Report: MsgSaveFirst}
		}
		if snap.Path == "" {
			return Outcome{Report: MsgNoOpenFile}
		}
		if fi, err := os.Stat(snap.Path); err != nil || !fi.Mode().IsRegular() {
			return Outcome{Report: fmt.Sprintf("Current file path '%s' is not a file.", snap.Path)}
		}
		target = snap.Path
	} else {
		path, err := r.prepareTemp(snap.Content)
		if err != nil {
			return Outcome{Report: fmt.Sprintf("Failed to prepare temp file: %v", err)}
		}
		defer os.Remove(path)
		target = path
	}

	args := append(append([]string{}, inv.Command[1:]...), target)
	cmd := r.command(ctx, inv.Command[0], args...)
	if r.Dir != "" {
		if fi, err := os.Stat(r.Dir); err == nil && fi.IsDir() {
			cmd.Dir = r.Dir
		}
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		r.Log.Printf("tool %s: spawn failed: %v", inv.Name, err)
		return Outcome{Report: fmt.Sprintf("Failed to run '%s': %v", inv.Command[0], err), Target: target}
	}

	out := Outcome{Ran: true, Success: err == nil, Target: target}
	status := "unknown"
	if cmd.ProcessState != nil {
		status = cmd.ProcessState.String()
	}
	r.Log.Printf("tool %s: %s (%s)", inv.Name, status, target)

	var b strings.Builder
	fmt.Fprintf(&b, "$ %s\n", displayCommand(inv.Command, target))
	fmt.Fprintf(&b, "Status: %s\n", status)
	if s := strings.TrimSpace(stdout.String()); s != "" {
		b.WriteString("\nstdout:\n")
		b.WriteString(strings.TrimRight(stdout.String(), " \t\r\n"))
		b.WriteString("\n")
	}
	if s := strings.TrimSpace(stderr.String()); s != "" {
		b.WriteString("\nstderr:\n")
		b.WriteString(strings.TrimRight(stderr.String(), " \t\r\n"))
		b.WriteString("\n")
	}

	if inv.ModifiesContent && out.Success {
		data, rerr := os.ReadFile(target)
		if rerr != nil {
			fmt.Fprintf(&b, "\nFormat note: failed to read formatter output (%s): %v\n", target, rerr)
		} else {
			out.Content = string(data)
			out.Reread = true
			if out.Content != snap.Content {
				added, removed := changeSummary(snap.Content, out.Content)
				fmt.Fprintf(&b, "\nChanges: +%d -%d lines\n", added, removed)
			}
		}
	}

	out.Report = b.String()
	return out
}

// Buffer is the part of a document reconciliation needs.
type Buffer interface {
	Content() string
	SetContent(string)
}

// Apply copies re-read tool output into buf when it differs. The buffer's
// saved content is left alone, so a reformatted buffer stays modified
// relative to disk.
func Apply(buf Buffer, out Outcome) bool {
	if !out.Reread || out.Content == buf.Content() {
		return false
	}
	buf.SetContent(out.Content)
	return true
}

func (r *Runner) prepareTemp(content string) (string, error) {
	f, err := os.CreateTemp(r.TempDir, "md-echo-*.md")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

func displayCommand(argv []string, target string) string {
	parts := append(append([]string{}, argv...), target)
	return strings.Join(parts, " ")
}
