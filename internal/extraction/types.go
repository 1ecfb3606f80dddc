package extraction

import (
	"context"
	"strings"

	"github.com/lexohub/voicepipe/internal/matter"
)

// Method tags the provenance of an extraction result.
type Method string

const (
	// MethodClaude means the remote result was used and accepted.
	MethodClaude Method = "claude"
	// MethodTraditional means only pattern extraction ran, or the
	// remote strategy failed with no recovery.
	MethodTraditional Method = "traditional"
	// MethodHybrid means the remote strategy was attempted but the
	// pattern fallback produced the result.
	MethodHybrid Method = "hybrid"
)

// WorkType is a fixed billing category for a time entry.
type WorkType string

const (
	WorkResearch        WorkType = "Research"
	WorkDrafting        WorkType = "Drafting"
	WorkClientMeeting   WorkType = "Client Meeting"
	WorkCourtAppearance WorkType = "Court Appearance"
	WorkDocumentReview  WorkType = "Document Review"
	WorkCorrespondence  WorkType = "Correspondence"
	WorkNegotiation     WorkType = "Negotiation"
	WorkTravel          WorkType = "Travel"
	WorkAdministrative  WorkType = "Administrative"
	WorkGeneral         WorkType = "General"
)

// WorkTypes lists every valid billing category.
func WorkTypes() []WorkType {
	return []WorkType{
		WorkResearch, WorkDrafting, WorkClientMeeting, WorkCourtAppearance,
		WorkDocumentReview, WorkCorrespondence, WorkNegotiation, WorkTravel,
		WorkAdministrative, WorkGeneral,
	}
}

// ParseWorkType maps a free-form label onto a WorkType. The second
// return is false when the label matches no category.
func ParseWorkType(s string) (WorkType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, wt := range WorkTypes() {
		if strings.ToLower(string(wt)) == normalized {
			return wt, true
		}
	}
	// Common provider spellings
	switch normalized {
	case "meeting", "client_meeting":
		return WorkClientMeeting, true
	case "court", "court_appearance":
		return WorkCourtAppearance, true
	case "review", "document_review":
		return WorkDocumentReview, true
	case "admin":
		return WorkAdministrative, true
	}
	return WorkGeneral, false
}

// Duration bounds in minutes. Candidates outside this range are
// rejected as misreadings (a dictated entry under 5 minutes or over a
// day is noise, not billing).
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 1440
)

// Field wraps an extracted value with its confidence and the raw
// transcript span it came from. Confidence is always in [0,1].
type Field[T any] struct {
	Value      T       `json:"value"`
	Confidence float64 `json:"confidence"`
	RawText    string  `json:"raw_text,omitempty"`
}

// TimeEntry is the structured draft produced from one transcript.
// A nil field means "not found"; only date and description are ever
// defaulted, and then at reduced confidence.
type TimeEntry struct {
	Duration    *Field[int]      `json:"duration,omitempty"` // minutes
	Date        *Field[string]   `json:"date,omitempty"`     // ISO 8601 date
	WorkType    *Field[WorkType] `json:"work_type,omitempty"`
	Matter      *Field[string]   `json:"matter,omitempty"` // matter ID or client-name guess
	Description *Field[string]   `json:"description,omitempty"`
	Confidence  float64          `json:"confidence"`
	Method      Method           `json:"method"`
	Errors      []string         `json:"errors,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// Options is the caller-supplied configuration for one extraction call.
type Options struct {
	ForceTraditional    bool    `json:"force_traditional"`
	EnableFallback      bool    `json:"enable_fallback"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	MaxRetries          int     `json:"max_retries"`
}

// DefaultOptions returns the default per-call configuration.
func DefaultOptions() Options {
	return Options{
		EnableFallback:      true,
		ConfidenceThreshold: 0.6,
		MaxRetries:          2,
	}
}

// Request carries one transcript and its context through the pipeline.
type Request struct {
	Transcript string          `json:"transcript"`
	Candidates []matter.Matter `json:"candidates,omitempty"`
	Options    Options         `json:"options"`
}

// Remote extracts a time entry using a hosted model. Implementations
// must never panic; failures surface as errors to the Coordinator.
type Remote interface {
	Extract(ctx context.Context, req Request) (*TimeEntry, error)
}
