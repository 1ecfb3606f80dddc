// Package navigation classifies a voice transcript as an app command.
// Classification is remote-first with a keyword fallback; anything that
// is not a recognizable command is routed to time-entry extraction.
package navigation

import (
	"time"

	"github.com/google/uuid"
)

// Action is the kind of app command a transcript resolves to.
type Action string

const (
	// ActionNavigate moves the user to a page.
	ActionNavigate Action = "navigate"
	// ActionSearch runs a search with the remaining words as the query.
	ActionSearch Action = "search"
	// ActionQuickAction triggers a one-shot operation like starting a timer.
	ActionQuickAction Action = "quick_action"
	// ActionTimeEntry marks the transcript as dictated billing content.
	ActionTimeEntry Action = "time_entry"
)

// Command is one recognized instruction from a transcript.
type Command struct {
	ID         string            `json:"id"`
	Command    string            `json:"command"`
	Action     Action            `json:"action"`
	Target     string            `json:"target"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Confidence float64           `json:"confidence"`
}

// newCommand allocates a command with a fresh ID.
func newCommand(action Action, target, source string, confidence float64) Command {
	return Command{
		ID:         uuid.New().String(),
		Command:    source,
		Action:     action,
		Target:     target,
		Confidence: confidence,
	}
}

// Result is the outcome of classifying one transcript.
type Result struct {
	Recognized          bool          `json:"recognized"`
	Commands            []Command     `json:"commands,omitempty"`
	FallbackToTimeEntry bool          `json:"fallback_to_time_entry"`
	OriginalText        string        `json:"original_text"`
	ProcessingTime      time.Duration `json:"processing_time_ns"`
	// Diagnostics records classification problems (remote errors,
	// rejected targets) without conflating them with "not a command".
	Diagnostics []string `json:"diagnostics,omitempty"`
}
