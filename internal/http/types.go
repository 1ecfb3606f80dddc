package http

import (
	"github.com/lexohub/voicepipe/internal/docclass"
	"github.com/lexohub/voicepipe/internal/extraction"
	"github.com/lexohub/voicepipe/internal/matter"
)

// InterpretRequest is the request body for POST /api/v1/interpret.
type InterpretRequest struct {
	Transcript string              `json:"transcript"`
	Candidates []matter.Matter     `json:"candidates,omitempty"`
	Options    *extraction.Options `json:"options,omitempty"`
}

// ExtractRequest is the request body for POST /api/v1/extract.
type ExtractRequest struct {
	Transcript string              `json:"transcript"`
	Candidates []matter.Matter     `json:"candidates,omitempty"`
	Options    *extraction.Options `json:"options,omitempty"`
}

// NavigateRequest is the request body for POST /api/v1/navigate.
type NavigateRequest struct {
	Transcript string `json:"transcript"`
}

// ClassifyDocumentRequest is the request body for
// POST /api/v1/documents/classify.
type ClassifyDocumentRequest struct {
	Document docclass.Document `json:"document"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	LLMOnline bool   `json:"llm_online"`
}
