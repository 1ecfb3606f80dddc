// Package interpreter is the top of the voice pipeline: it classifies a
// transcript as a command first and only runs time-entry extraction
// when the transcript turns out to be dictated billing content.
package interpreter

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexohub/voicepipe/internal/extraction"
	"github.com/lexohub/voicepipe/internal/navigation"
)

// Interpreter routes a transcript through classification and, when
// needed, extraction.
type Interpreter struct {
	classifier  *navigation.Classifier
	coordinator *extraction.Coordinator
	logger      *zap.Logger
}

// Outcome is the combined result of interpreting one transcript.
// Navigation is always set; TimeEntry only when the transcript was
// dictated billing content.
type Outcome struct {
	Navigation *navigation.Result    `json:"navigation"`
	TimeEntry  *extraction.TimeEntry `json:"time_entry,omitempty"`
}

// New creates an interpreter.
func New(classifier *navigation.Classifier, coordinator *extraction.Coordinator, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{
		classifier:  classifier,
		coordinator: coordinator,
		logger:      logger,
	}
}

// Interpret classifies the transcript and extracts a time entry when
// classification falls through.
func (i *Interpreter) Interpret(ctx context.Context, req extraction.Request) *Outcome {
	nav := i.classifier.Classify(ctx, req.Transcript)
	outcome := &Outcome{Navigation: nav}

	if nav.FallbackToTimeEntry {
		i.logger.Debug("transcript routed to time-entry extraction",
			zap.Int("transcript_len", len(req.Transcript)))
		outcome.TimeEntry = i.coordinator.Extract(ctx, req)
	}

	return outcome
}
