package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lexohub/voicepipe/internal/llm"
	"github.com/lexohub/voicepipe/internal/matter"
)

// maxTranscriptLen is the longest transcript sent to a provider. Longer
// dictations are rejected before any network call is made.
const maxTranscriptLen = 4000

// defaultRetryDelay is the base unit of the linear backoff between
// extraction attempts.
const defaultRetryDelay = 500 * time.Millisecond

var (
	// ErrEmptyTranscript is returned for blank input.
	ErrEmptyTranscript = errors.New("transcript is empty")
	// ErrTranscriptTooLong is returned when the transcript exceeds the
	// provider limit.
	ErrTranscriptTooLong = fmt.Errorf("transcript exceeds %d characters", maxTranscriptLen)
)

// RemoteExtractor extracts time entries by prompting a hosted model for
// structured JSON. It owns the retry policy; the underlying client is
// single-attempt.
type RemoteExtractor struct {
	client     llm.Client
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewRemoteExtractor creates a remote extractor on top of the given
// provider client.
func NewRemoteExtractor(client llm.Client, logger *zap.Logger) *RemoteExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteExtractor{
		client:     client,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}
}

// Extract prompts the model and parses its JSON reply into a TimeEntry.
// Retryable failures (network, rate limits, malformed replies) are
// retried with linear backoff up to req.Options.MaxRetries extra
// attempts; validation failures and provider unavailability are not.
func (r *RemoteExtractor) Extract(ctx context.Context, req Request) (*TimeEntry, error) {
	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}
	if len(transcript) > maxTranscriptLen {
		return nil, ErrTranscriptTooLong
	}
	if r.client == nil || !r.client.Available() {
		return nil, fmt.Errorf("remote extraction: %w", llm.ErrUnavailable)
	}

	// Zero is a valid choice meaning a single attempt; only a negative
	// value falls back to the default.
	retries := req.Options.MaxRetries
	if retries < 0 {
		retries = DefaultOptions().MaxRetries
	}

	prompt := buildExtractionPrompt(transcript, req.Candidates)

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * r.retryDelay
			r.logger.Debug("retrying remote extraction",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		raw, err := r.client.Complete(ctx, prompt)
		if err != nil {
			lastErr = err
			if llm.IsRetryable(err) {
				continue
			}
			return nil, err
		}

		entry, err := r.parseEntry(raw, transcript)
		if err != nil {
			// A garbled reply is worth one more roll of the dice.
			lastErr = &llm.RetryableError{Err: err}
			continue
		}
		return entry, nil
	}

	return nil, fmt.Errorf("remote extraction failed after %d attempts: %w", retries+1, lastErr)
}

// buildExtractionPrompt renders the extraction instruction with the
// transcript and candidate matters inlined.
func buildExtractionPrompt(transcript string, candidates []matter.Matter) string {
	var b strings.Builder
	b.WriteString(`You extract structured billing data from a lawyer's dictated time entry.

Respond with ONLY a JSON object, no prose, in this exact shape:
{
  "duration_minutes": <integer or null>,
  "date": "<YYYY-MM-DD or relative word like today/yesterday, or null>",
  "activity_type": "<one of: `)
	labels := make([]string, 0, len(WorkTypes()))
	for _, wt := range WorkTypes() {
		labels = append(labels, string(wt))
	}
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString(`>",
  "matter_reference": "<matter id from the candidate list, or null>",
  "client_name": "<client name heard in the transcript, or null>",
  "description": "<concise billing narrative>",
  "confidence_score": <0.0 to 1.0>
}

Use null for anything the transcript does not state. Do not invent values.
`)

	if len(candidates) > 0 {
		b.WriteString("\nCandidate matters:\n")
		data, err := json.Marshal(candidates)
		if err == nil {
			b.Write(data)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nTranscript:\n")
	b.WriteString(transcript)
	return b.String()
}

// remoteEntry is the wire shape the model is asked to produce.
type remoteEntry struct {
	DurationMinutes *int     `json:"duration_minutes"`
	Date            *string  `json:"date"`
	ActivityType    *string  `json:"activity_type"`
	MatterReference *string  `json:"matter_reference"`
	ClientName      *string  `json:"client_name"`
	Description     *string  `json:"description"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

// parseEntry decodes the model reply into a TimeEntry, tolerating
// markdown code fences around the JSON body.
func (r *RemoteExtractor) parseEntry(raw, transcript string) (*TimeEntry, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var re remoteEntry
	if err := json.Unmarshal([]byte(cleaned), &re); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	// Sub-fields inherit the model's single self-reported score.
	conf := 0.5
	if re.ConfidenceScore != nil {
		conf = clamp01(*re.ConfidenceScore)
	}

	entry := &TimeEntry{Method: MethodClaude}

	if re.DurationMinutes != nil {
		d := *re.DurationMinutes
		if d >= MinDurationMinutes && d <= MaxDurationMinutes {
			entry.Duration = &Field[int]{Value: d, Confidence: conf}
		} else {
			entry.Warnings = append(entry.Warnings,
				fmt.Sprintf("model returned out-of-range duration %d minutes, dropped", d))
		}
	}

	if re.Date != nil && *re.Date != "" {
		if iso, ok := normalizeDate(*re.Date); ok {
			entry.Date = &Field[string]{Value: iso, Confidence: conf, RawText: *re.Date}
		} else {
			entry.Warnings = append(entry.Warnings,
				fmt.Sprintf("model returned unparseable date %q, dropped", *re.Date))
		}
	}

	if re.ActivityType != nil && *re.ActivityType != "" {
		wt, ok := ParseWorkType(*re.ActivityType)
		c := conf
		if !ok {
			entry.Warnings = append(entry.Warnings,
				fmt.Sprintf("model returned unknown activity type %q, defaulted to General", *re.ActivityType))
			c = 0.2
		}
		entry.WorkType = &Field[WorkType]{Value: wt, Confidence: c, RawText: *re.ActivityType}
	}

	if re.MatterReference != nil && *re.MatterReference != "" {
		entry.Matter = &Field[string]{Value: *re.MatterReference, Confidence: conf}
	} else if re.ClientName != nil && *re.ClientName != "" {
		entry.Matter = &Field[string]{Value: *re.ClientName, Confidence: conf * 0.8, RawText: *re.ClientName}
	}

	if re.Description != nil && *re.Description != "" {
		entry.Description = &Field[string]{Value: *re.Description, Confidence: conf}
	}

	entry.Confidence = overallConfidence(entry, len(transcript))
	return entry, nil
}

// normalizeDate accepts ISO dates and the relative words the prompt
// allows, returning an ISO 8601 date string.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), true
	}
	now := time.Now()
	switch strings.ToLower(s) {
	case "today":
		return now.Format("2006-01-02"), true
	case "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02"), true
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), true
	}
	return "", false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Ensure interface is implemented at compile time.
var _ Remote = (*RemoteExtractor)(nil)
