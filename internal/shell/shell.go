// Package shell holds the editor's application state and turns queued
// intents into document operations, confirmations and tool jobs.
//
// The UI owns rendering and input; it pushes intents with Enqueue, calls Step
// once per frame, answers whatever Prompt is open and runs the Job handed out
// by TakeJob off the render loop, reporting back with Finish.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fibnas/md-echo/internal/config"
	"github.com/fibnas/md-echo/internal/document"
	"github.com/fibnas/md-echo/internal/session"
	"github.com/fibnas/md-echo/internal/tools"
)

// Options configure a Shell. Sessions and PersistWorkDir may be nil.
type Options struct {
	WorkDir        string
	Tools          config.ToolsConfig
	Sessions       session.Store
	Log            *log.Logger
	PersistWorkDir func(dir string) error
}

// Job is a tool run the UI must execute.
type Job struct {
	Invocation tools.Invocation
	Snapshot   tools.Snapshot
	Dir        string
}

// Shell is the whole application state outside the widgets.
type Shell struct {
	ctx  context.Context
	opts Options
	log  *log.Logger

	doc     *document.Document
	queue   queue
	prompt  *Prompt
	workDir string

	busy bool
	job  *Job

	output     string
	showOutput bool
	notice     string

	revision   int
	cursorLine int
	cursorHint int
	quit       bool
}

// New returns a shell with an empty document.
func New(ctx context.Context, opts Options) *Shell {
	lg := opts.Log
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	return &Shell{
		ctx:        ctx,
		opts:       opts,
		log:        lg,
		doc:        document.New(),
		workDir:    opts.WorkDir,
		cursorHint: -1,
	}
}

func (s *Shell) Document() *document.Document { return s.doc }
func (s *Shell) WorkDir() string              { return s.workDir }
func (s *Shell) Prompt() *Prompt              { return s.prompt }
func (s *Shell) Busy() bool                   { return s.busy }
func (s *Shell) Quit() bool                   { return s.quit }
func (s *Shell) Pending() int                 { return s.queue.len() }
func (s *Shell) Notice() string               { return s.notice }

// Revision changes whenever the buffer is replaced from outside the editor
// widget (new, open, format).
func (s *Shell) Revision() int { return s.revision }

// Output returns the last tool report and whether the output view is open.
func (s *Shell) Output() (string, bool) { return s.output, s.showOutput }

func (s *Shell) CloseOutput() { s.showOutput = false }

// Enqueue appends an intent; it runs on the next Step.
func (s *Shell) Enqueue(in Intent) {
	s.queue.push(in)
}

// Edit replaces the buffer text. Ignored while a tool runs.
func (s *Shell) Edit(content string) {
	if s.busy || content == s.doc.Content() {
		return
	}
	s.doc.SetContent(content)
}

// EditView applies a change made in the editor widget, given the widget text
// before and after it. Ignored while a tool runs.
func (s *Shell) EditView(before, after string) {
	if s.busy {
		return
	}
	s.doc.ApplyEdit(before, after)
}

// SetCursorLine records the editor's cursor line for the session store.
func (s *Shell) SetCursorLine(line int) { s.cursorLine = line }

// TakeCursorHint returns a line to move the cursor to after an open, once.
func (s *Shell) TakeCursorHint() (int, bool) {
	if s.cursorHint < 0 {
		return 0, false
	}
	line := s.cursorHint
	s.cursorHint = -1
	return line, true
}

// Step drains queued intents until one needs an answer or a tool is running.
func (s *Shell) Step() {
	for s.prompt == nil && !s.busy && !s.quit {
		in, ok := s.queue.pop()
		if !ok {
			return
		}
		s.handle(in)
	}
}

func (s *Shell) handle(in Intent) {
	if in.Kind.destructive() && !in.confirmed && s.doc.Modified() {
		s.prompt = confirmPrompt(in)
		return
	}

	switch in.Kind {
	case IntentNew:
		s.remember()
		s.doc.Reset()
		s.revision++
		s.setNotice("New document")
	case IntentOpen:
		if in.Path == "" {
			s.prompt = &Prompt{Kind: PromptPath, Title: "Open file", purpose: purposeOpen, intent: in}
			return
		}
		s.open(s.resolve(in.Path))
	case IntentSave:
		if s.doc.NeedsPath(false) {
			s.prompt = &Prompt{Kind: PromptPath, Title: "Save as", purpose: purposeSave}
			return
		}
		s.save("")
	case IntentSaveAs:
		s.prompt = &Prompt{Kind: PromptPath, Title: "Save as", Initial: s.doc.Path(), purpose: purposeSave}
	case IntentLint:
		s.startTool(tools.Invocation{
			Name:        "lint",
			Command:     s.opts.Tools.Lint,
			UseOpenFile: s.opts.Tools.LintUseOpenFile,
		})
	case IntentFormat:
		s.startTool(tools.Invocation{
			Name:            "format",
			Command:         s.opts.Tools.Format,
			ModifiesContent: true,
			UseOpenFile:     s.opts.Tools.FormatUseOpenFile,
		})
	case IntentExit:
		s.remember()
		s.quit = true
	case IntentSetWorkDir:
		if in.Path == "" {
			s.prompt = &Prompt{Kind: PromptPath, Title: "Working directory", Initial: s.workDir, purpose: purposeWorkDir}
			return
		}
		_ = s.SetWorkDir(in.Path)
	}
}

// Confirm answers the open confirmation. Save keeps the changes by saving
// first (asking for a path when the document is untitled), Discard drops
// them, Cancel aborts the intent.
func (s *Shell) Confirm(c Choice) {
	p := s.prompt
	if p == nil || p.Kind != PromptConfirm {
		return
	}
	s.prompt = nil
	in := p.intent
	in.confirmed = true

	switch c {
	case ChoiceCancel:
		s.setNotice("Cancelled")
	case ChoiceDiscard:
		s.handle(in)
	case ChoiceSave:
		if s.doc.NeedsPath(false) {
			s.prompt = &Prompt{Kind: PromptPath, Title: "Save as", purpose: purposeSave, then: &in}
			return
		}
		if s.save("") {
			s.handle(in)
		}
	}
	s.Step()
}

// SubmitPath answers the open path prompt.
func (s *Shell) SubmitPath(value string) {
	p := s.prompt
	if p == nil || p.Kind != PromptPath {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		s.CancelPrompt()
		return
	}
	s.prompt = nil

	switch p.purpose {
	case purposeOpen:
		in := p.intent
		in.Path = value
		in.confirmed = true
		s.handle(in)
	case purposeSave:
		if s.save(s.resolve(value)) && p.then != nil {
			s.handle(*p.then)
		}
	case purposeWorkDir:
		_ = s.SetWorkDir(value)
	}
	s.Step()
}

// CancelPrompt closes the open prompt and drops its intent.
func (s *Shell) CancelPrompt() {
	if s.prompt == nil {
		return
	}
	s.prompt = nil
	s.setNotice("Cancelled")
	s.Step()
}

func (s *Shell) open(path string) {
	before := s.doc.Path()
	if err := s.doc.Open(path); err != nil {
		s.log.Printf("open: %v", err)
		s.setNotice(fmt.Sprintf("Open failed: %v", err))
		return
	}
	if before != "" && before != path {
		s.recordVisit(before, s.cursorLine, "")
	}
	s.revision++
	s.cursorLine = 0
	s.cursorHint = -1
	fp := s.doc.Fingerprint()
	if s.opts.Sessions != nil {
		if v, err := s.opts.Sessions.Lookup(s.ctx, path); err == nil {
			if line, ok := session.RestoreLine(v, fp); ok {
				s.cursorHint = line
				s.cursorLine = line
			}
		} else if !errors.Is(err, session.ErrNotFound) {
			s.log.Printf("session lookup %s: %v", path, err)
		}
	}
	s.recordVisit(path, s.cursorLine, fp)
	s.setNotice("Opened " + path)
}

// OpenInitial loads the file named on the command line. A read failure is
// logged and leaves the empty buffer.
func (s *Shell) OpenInitial(path string) {
	if path == "" {
		return
	}
	s.open(s.resolve(path))
}

// save writes to path, or to the current path when path is empty.
func (s *Shell) save(path string) bool {
	var err error
	if path == "" {
		err = s.doc.Save()
	} else {
		err = s.doc.SaveAs(path)
	}
	if err != nil {
		s.log.Printf("save: %v", err)
		s.setNotice(fmt.Sprintf("Save failed: %v", err))
		return false
	}
	s.recordVisit(s.doc.Path(), s.cursorLine, s.doc.Fingerprint())
	s.setNotice("Saved " + s.doc.Path())
	return true
}

func (s *Shell) startTool(inv tools.Invocation) {
	s.busy = true
	s.job = &Job{
		Invocation: inv,
		Snapshot: tools.Snapshot{
			Content:  s.doc.Content(),
			Path:     s.doc.Path(),
			Modified: s.doc.Modified(),
		},
		Dir: s.workDir,
	}
	s.setNotice("Running " + inv.Name + "...")
}

// TakeJob hands out the pending tool run. The shell stays busy until Finish.
func (s *Shell) TakeJob() (Job, bool) {
	if s.job == nil {
		return Job{}, false
	}
	j := *s.job
	s.job = nil
	return j, true
}

// Finish applies a tool outcome: the report goes to the output view and
// re-read content from a content-modifying tool replaces the buffer.
func (s *Shell) Finish(out tools.Outcome) {
	s.busy = false
	if tools.Apply(s.doc, out) {
		s.revision++
		s.cursorHint = s.cursorLine
	}
	s.output = out.Report
	s.showOutput = true
	s.setNotice("")
}

// SetWorkDir switches the working directory and persists it. A path that is
// not a directory is rejected and the previous one kept.
func (s *Shell) SetWorkDir(dir string) error {
	dir = s.resolve(dir)
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		err = fmt.Errorf("%w: %s", config.ErrInvalidWorkingDir, dir)
		s.log.Printf("working dir: %v", err)
		s.setNotice(err.Error())
		return err
	}
	if s.opts.PersistWorkDir != nil {
		if perr := s.opts.PersistWorkDir(dir); perr != nil {
			s.log.Printf("persist working dir: %v", perr)
		}
	}
	s.workDir = dir
	s.setNotice("Working directory: " + dir)
	return nil
}

// Remember records the current file and cursor line; called on exit paths
// that bypass the intent queue.
func (s *Shell) Remember() { s.remember() }

func (s *Shell) remember() {
	if s.doc.HasPath() {
		s.recordVisit(s.doc.Path(), s.cursorLine, "")
	}
}

// recordVisit stores a visit. An empty fingerprint keeps the stored one when
// the buffer is modified, since the line then refers to unsaved text.
func (s *Shell) recordVisit(path string, line int, fp string) {
	if s.opts.Sessions == nil || path == "" {
		return
	}
	if fp == "" {
		if path == s.doc.Path() && !s.doc.Modified() {
			fp = s.doc.Fingerprint()
		} else if v, err := s.opts.Sessions.Lookup(s.ctx, path); err == nil {
			fp = v.Fingerprint
		}
	}
	if err := s.opts.Sessions.Record(s.ctx, session.Visit{Path: path, Line: line, Fingerprint: fp}); err != nil {
		s.log.Printf("session record %s: %v", path, err)
	}
}

// Recent lists recently visited files for quick-open.
func (s *Shell) Recent(limit int) []string {
	if s.opts.Sessions == nil {
		return nil
	}
	out, err := s.opts.Sessions.Recent(s.ctx, limit)
	if err != nil {
		s.log.Printf("session recent: %v", err)
		return nil
	}
	return out
}

func (s *Shell) resolve(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) && s.workDir != "" {
		p = filepath.Join(s.workDir, p)
	}
	return filepath.Clean(p)
}

func (s *Shell) setNotice(msg string) { s.notice = msg }
