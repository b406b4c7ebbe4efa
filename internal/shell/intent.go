package shell

// IntentKind names a user request.
type IntentKind int

const (
	IntentNew IntentKind = iota
	IntentOpen
	IntentSave
	IntentSaveAs
	IntentLint
	IntentFormat
	IntentExit
	IntentSetWorkDir
)

func (k IntentKind) String() string {
	switch k {
	case IntentNew:
		return "new"
	case IntentOpen:
		return "open"
	case IntentSave:
		return "save"
	case IntentSaveAs:
		return "save-as"
	case IntentLint:
		return "lint"
	case IntentFormat:
		return "format"
	case IntentExit:
		return "exit"
	case IntentSetWorkDir:
		return "set-workdir"
	}
	return "unknown"
}

// destructive intents drop the buffer and need consent when it is modified.
func (k IntentKind) destructive() bool {
	return k == IntentNew || k == IntentOpen || k == IntentExit
}

// Intent is one queued request. Path is used by open and set-workdir; empty
// means ask.
type Intent struct {
	Kind IntentKind
	Path string

	confirmed bool
}

// queue is a FIFO of intents.
type queue struct{ items []Intent }

func (q *queue) push(in Intent) { q.items = append(q.items, in) }

func (q *queue) pop() (Intent, bool) {
	if len(q.items) == 0 {
		return Intent{}, false
	}
	in := q.items[0]
	q.items = q.items[1:]
	return in, true
}

func (q *queue) len() int { return len(q.items) }
