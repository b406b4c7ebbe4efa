package shell

// PromptKind tells the UI which modal to draw.
type PromptKind int

const (
	PromptConfirm PromptKind = iota + 1
	PromptPath
)

// Choice answers a confirmation.
type Choice int

const (
	ChoiceSave Choice = iota
	ChoiceDiscard
	ChoiceCancel
)

type pathPurpose int

const (
	purposeOpen pathPurpose = iota
	purposeSave
	purposeWorkDir
)

// Prompt is the modal the shell is waiting on. For confirmations Options
// holds the labels of ChoiceSave, ChoiceDiscard and ChoiceCancel in order.
type Prompt struct {
	Kind    PromptKind
	Title   string
	Message string
	Options []string
	Initial string

	purpose pathPurpose
	intent  Intent
	// then runs after a successful save prompted by a confirmation.
	then *Intent
}

func confirmPrompt(in Intent) *Prompt {
	p := &Prompt{
		Kind:    PromptConfirm,
		Title:   "Unsaved changes",
		Message: "The document has unsaved changes.",
		Options: []string{"Save", "Discard", "Cancel"},
		intent:  in,
	}
	if in.Kind == IntentExit {
		p.Title = "Quit"
		p.Message = "The document has unsaved changes. Save before exiting?"
		p.Options = []string{"Save and Exit", "Discard and Exit", "Cancel"}
	}
	return p
}
