// Package tui is the terminal front end: a file tree, the editor and a live
// preview side by side, with a status bar and modal prompts.
package tui

import (
	"context"
	"io"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fibnas/md-echo/internal/document"
	"github.com/fibnas/md-echo/internal/filetree"
	"github.com/fibnas/md-echo/internal/preview"
	"github.com/fibnas/md-echo/internal/scrollsync"
	"github.com/fibnas/md-echo/internal/shell"
	"github.com/fibnas/md-echo/internal/theme"
	"github.com/fibnas/md-echo/internal/tools"
)

type focus int

const (
	focusTree focus = iota
	focusEditor
	focusPreview
	focusCount
)

// Options wire the model to the rest of the application. Watcher may be nil.
type Options struct {
	Shell       *shell.Shell
	Runner      *tools.Runner
	Theme       theme.Theme
	Preview     *preview.Renderer
	Sync        *scrollsync.Synchronizer
	Watcher     *filetree.Watcher
	RecentLimit int
	Log         *log.Logger
}

// Run starts the full-screen program and blocks until the user exits.
func Run(ctx context.Context, opts Options) error {
	m := newModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(model); ok {
		fm.sh.Remember()
	}
	return err
}

type model struct {
	ctx  context.Context
	sh   *shell.Shell
	opts Options
	log  *log.Logger
	th   theme.Theme
	keys keyMap

	tree    *filetree.Tree
	ta      textarea.Model
	vp      viewport.Model
	spin    spinner.Model
	help    help.Model
	focus   focus
	width   int
	height  int
	treeW   int
	editorW int

	revision   int
	previewSrc string
	previewW   int

	confirm   *confirmModal
	prompt    *promptModal
	output    *outputModal
	quickOpen *quickOpenModal
	// cancelTool stops the running tool, if any.
	cancelTool context.CancelFunc
	// outputShown is the report currently in the output modal.
	outputShown string
}

func newModel(ctx context.Context, opts Options) model {
	lg := opts.Log
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	if opts.Sync == nil {
		opts.Sync = scrollsync.New(1)
	}
	if opts.Preview == nil {
		opts.Preview = preview.New(opts.Theme, "")
	}
	if opts.Runner == nil {
		opts.Runner = tools.NewRunner(opts.Shell.WorkDir(), lg)
	}

	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		ctx:      ctx,
		sh:       opts.Shell,
		opts:     opts,
		log:      lg,
		th:       opts.Theme,
		keys:     defaultKeys(),
		tree:     filetree.New(opts.Shell.WorkDir()),
		ta:       ta,
		vp:       viewport.New(40, 10),
		spin:     sp,
		help:     help.New(),
		focus:    focusEditor,
		revision: -1,
	}
	m.syncWatcher()
	m.layout(80, 24)
	m.afterUpdate()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, watchCmd(m.ctx, m.opts.Watcher))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		m.resizeModals(msg)
	case spinner.TickMsg:
		if m.sh.Busy() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
	case toolResultMsg:
		m.log.Printf("tool finished in %s", msg.dur)
		if m.cancelTool != nil {
			m.cancelTool()
			m.cancelTool = nil
		}
		m.sh.Finish(msg.out)
	case treeChangedMsg:
		if msg.err != nil {
			if stopWatching(msg.err) {
				break
			}
			m.log.Printf("watch: %v", msg.err)
		}
		m.tree.Refresh()
		cmds = append(cmds, watchCmd(m.ctx, m.opts.Watcher))
	case copyResultMsg:
		if m.output != nil {
			if msg.err != nil {
				m.log.Printf("clipboard: %v", msg.err)
				m.output.status = "copy failed"
			} else {
				m.output.status = "copied"
			}
		}
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	default:
		if m.focus == focusEditor && !m.sh.Busy() {
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.afterUpdate()...)
	if m.sh.Quit() {
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.quickOpen != nil {
		switch {
		case key.Matches(msg, m.keys.Close):
			m.quickOpen = nil
			return nil
		case msg.String() == "enter":
			if p, ok := m.quickOpen.choice(); ok {
				m.sh.Enqueue(shell.Intent{Kind: shell.IntentOpen, Path: p})
			}
			m.quickOpen = nil
			return nil
		}
		var cmd tea.Cmd
		m.quickOpen, cmd = m.quickOpen.update(msg)
		return cmd
	}

	if p := m.sh.Prompt(); p != nil {
		switch p.Kind {
		case shell.PromptConfirm:
			if m.confirm == nil {
				return nil
			}
			if c, ok := m.confirm.update(msg); ok {
				m.confirm = nil
				m.sh.Confirm(c)
			}
			return nil
		case shell.PromptPath:
			if m.prompt == nil {
				return nil
			}
			switch {
			case key.Matches(msg, m.keys.Close):
				m.prompt = nil
				m.sh.CancelPrompt()
				return nil
			case msg.String() == "enter":
				v := m.prompt.value()
				m.prompt = nil
				m.sh.SubmitPath(v)
				return nil
			}
			var cmd tea.Cmd
			m.prompt, cmd = m.prompt.update(msg)
			return cmd
		}
	}

	if m.output != nil {
		switch {
		case key.Matches(msg, m.keys.Close):
			m.output = nil
			m.sh.CloseOutput()
			return nil
		case key.Matches(msg, m.keys.Copy):
			return copyCmd(m.output.content)
		case key.Matches(msg, m.keys.Quit):
			// fall through to the global binding
		default:
			var cmd tea.Cmd
			m.output, cmd = m.output.update(msg)
			return cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		// The exit waits for the tool; stop it so the wait is short.
		if m.sh.Busy() && m.cancelTool != nil {
			m.log.Printf("quit: cancelling running tool")
			m.cancelTool()
		}
		m.sh.Enqueue(shell.Intent{Kind: shell.IntentExit})
		return nil
	case key.Matches(msg, m.keys.New):
		m.sh.Enqueue(shell.Intent{Kind: shell.IntentNew})
		return nil
	case key.Matches(msg, m.keys.Open):
		m.sh.Enqueue(shell.Intent{Kind: shell.IntentOpen})
		return nil
	case key.Matches(msg, m.keys.Save):
		m.sh.Enqueue(shell.Intent{Kind: shell.IntentSave})
		return nil
	case key.Matches(msg, m.keys.SaveAs):
		m.sh.Enqueue(shell.Intent{Kind: shell.IntentSaveAs})
		return nil
	case key.Matches(msg, m.keys.Lint):
		m.sh.Enqueue(shell.Intent{Kind: shell.IntentLint})
		return nil
	case key.Matches(msg, m.keys.Format):
		m.sh.Enqueue(shell.Intent{Kind: shell.IntentFormat})
		return nil
	case key.Matches(msg, m.keys.WorkDir):
		m.sh.Enqueue(shell.Intent{Kind: shell.IntentSetWorkDir})
		return nil
	case key.Matches(msg, m.keys.QuickOpen):
		root := m.sh.WorkDir()
		cands := filetree.Candidates(m.sh.Recent(m.opts.RecentLimit), filetree.ListFiles(root, quickOpenFileLimit))
		m.quickOpen = newQuickOpenModal(root, cands, m.th, m.width, m.height)
		return nil
	case key.Matches(msg, m.keys.Focus):
		m.setFocus((m.focus + 1) % focusCount)
		return nil
	}

	switch m.focus {
	case focusTree:
		return m.handleTreeKey(msg)
	case focusPreview:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return cmd
	default:
		if m.sh.Busy() {
			return nil
		}
		before := m.ta.Value()
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		m.sh.EditView(before, m.ta.Value())
		return cmd
	}
}

func (m *model) handleTreeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.tree.Move(-1)
	case "down", "j":
		m.tree.Move(1)
	case "pgup":
		m.tree.Move(-m.paneInnerHeight())
	case "pgdown":
		m.tree.Move(m.paneInnerHeight())
	case "enter", " ", "right", "l":
		r, ok := m.tree.Selected()
		if !ok || r.Err != "" {
			return nil
		}
		if r.Dir {
			m.tree.Toggle()
			m.syncWatcher()
			return nil
		}
		m.sh.Enqueue(shell.Intent{Kind: shell.IntentOpen, Path: r.Path})
	case "left", "h":
		if r, ok := m.tree.Selected(); ok && r.Dir && r.Expanded {
			m.tree.Toggle()
			m.syncWatcher()
		}
	}
	return nil
}

func (m *model) setFocus(f focus) {
	m.focus = f
	if f == focusEditor {
		m.ta.Focus()
	} else {
		m.ta.Blur()
	}
}

// afterUpdate runs once per frame: it drains the shell's intents, starts a
// pending tool job, mirrors shell state into the widgets and follows the
// editor cursor in the preview.
func (m *model) afterUpdate() []tea.Cmd {
	var cmds []tea.Cmd
	wasBusy := m.sh.Busy()
	m.sh.Step()

	if job, ok := m.sh.TakeJob(); ok {
		ctx, cancel := context.WithCancel(m.ctx)
		m.cancelTool = cancel
		cmds = append(cmds, toolCmd(ctx, m.opts.Runner, job))
		if !wasBusy {
			cmds = append(cmds, m.spin.Tick)
		}
	}

	if m.tree.Root() != m.sh.WorkDir() {
		m.tree.SetRoot(m.sh.WorkDir())
		m.syncWatcher()
	}

	if rev := m.sh.Revision(); rev != m.revision {
		m.revision = rev
		m.ta.SetValue(document.Display(m.sh.Document().Content()))
		line, ok := m.sh.TakeCursorHint()
		if !ok {
			line = 0
			m.opts.Sync.Reset()
		}
		m.moveCursorTo(line)
	}
	m.sh.SetCursorLine(m.ta.Line())

	m.syncModals()
	m.refreshPreview()
	m.opts.Sync.Observe(m.ta.Line(), m.focus == focusEditor)
	if m.focus != focusPreview {
		m.vp.SetYOffset(m.opts.Sync.Offset())
	}
	return cmds
}

// syncModals opens or closes modals to match the shell's prompt and output.
func (m *model) syncModals() {
	p := m.sh.Prompt()
	switch {
	case p == nil:
		m.confirm, m.prompt = nil, nil
	case p.Kind == shell.PromptConfirm && (m.confirm == nil || m.confirm.src != p):
		m.prompt = nil
		m.confirm = newConfirmModal(p, m.th, m.width, m.height)
	case p.Kind == shell.PromptPath && (m.prompt == nil || m.prompt.src != p):
		m.confirm = nil
		m.prompt = newPromptModal(p, m.th.AccentColor(), m.width, m.height)
	}

	report, open := m.sh.Output()
	switch {
	case !open:
		m.output = nil
	case m.output == nil || m.outputShown != report:
		m.output = newOutputModal(report, m.th.AccentColor(), m.width, m.height)
		m.outputShown = report
	}
}

func (m *model) resizeModals(msg tea.WindowSizeMsg) {
	if m.confirm != nil {
		m.confirm.update(msg)
	}
	if m.prompt != nil {
		m.prompt, _ = m.prompt.update(msg)
	}
	if m.output != nil {
		m.output, _ = m.output.update(msg)
	}
	if m.quickOpen != nil {
		m.quickOpen, _ = m.quickOpen.update(msg)
	}
}

func (m *model) refreshPreview() {
	src := m.sh.Document().Content()
	if src == m.previewSrc && m.vp.Width == m.previewW {
		return
	}
	out, err := m.opts.Preview.Render(src, m.vp.Width)
	if err != nil {
		m.log.Printf("preview: %v", err)
		out = src
	}
	m.vp.SetContent(out)
	m.previewSrc = src
	m.previewW = m.vp.Width
}

// moveCursorTo puts the editor cursor on line, bounded by the content.
func (m *model) moveCursorTo(line int) {
	limit := len(m.ta.Value()) + m.ta.LineCount()
	for i := 0; m.ta.Line() > 0 && i < limit; i++ {
		m.ta.CursorUp()
	}
	for i := 0; m.ta.Line() < line && m.ta.Line() < m.ta.LineCount()-1 && i < limit; i++ {
		m.ta.CursorDown()
	}
}

func (m *model) syncWatcher() {
	if m.opts.Watcher == nil {
		return
	}
	if err := m.opts.Watcher.Sync(m.tree.Dirs()); err != nil {
		m.log.Printf("watch: %v", err)
	}
}
