package extraction

import (
	"context"

	"go.uber.org/zap"
)

// Coordinator routes extraction requests between the remote and pattern
// strategies and tags the result with the method that produced it.
type Coordinator struct {
	remote  Remote
	pattern *PatternExtractor
	logger  *zap.Logger
}

// NewCoordinator creates a coordinator. remote may be nil, in which
// case only pattern extraction runs.
func NewCoordinator(remote Remote, pattern *PatternExtractor, logger *zap.Logger) *Coordinator {
	if pattern == nil {
		pattern = NewPatternExtractor(PatternConfig{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		remote:  remote,
		pattern: pattern,
		logger:  logger,
	}
}

// Extract runs the configured strategies against the request. The
// remote strategy is preferred; its result is accepted when it meets
// the confidence threshold. On failure or low confidence the pattern
// extractor takes over and the result is tagged hybrid so the caller
// can see the degradation. Extract never returns an error: failures
// are accumulated on the entry.
func (c *Coordinator) Extract(ctx context.Context, req Request) *TimeEntry {
	opts := req.Options
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = DefaultOptions().ConfidenceThreshold
	}
	req.Options = opts

	var (
		errs           []string
		warnings       []string
		remoteAttempts bool
	)

	if !opts.ForceTraditional && c.remote != nil {
		remoteAttempts = true
		entry, err := c.remote.Extract(ctx, req)
		switch {
		case err != nil:
			c.logger.Warn("remote extraction failed, falling back",
				zap.Error(err))
			errs = append(errs, "remote extraction failed: "+err.Error())
		case entry.Confidence < opts.ConfidenceThreshold:
			c.logger.Info("remote extraction below threshold, falling back",
				zap.Float64("confidence", entry.Confidence),
				zap.Float64("threshold", opts.ConfidenceThreshold))
			warnings = append(warnings, "remote result below confidence threshold, used pattern extraction")
			warnings = append(warnings, entry.Warnings...)
		default:
			entry.Method = MethodClaude
			return entry
		}
	}

	if opts.EnableFallback || !remoteAttempts {
		entry := c.pattern.Extract(req.Transcript, req.Candidates)
		if remoteAttempts {
			entry.Method = MethodHybrid
		} else {
			entry.Method = MethodTraditional
		}
		entry.Errors = append(errs, entry.Errors...)
		entry.Warnings = append(warnings, entry.Warnings...)
		return entry
	}

	// Remote failed and fallback is disabled: return a minimal draft so
	// the caller still has the transcript to hand-correct.
	return &TimeEntry{
		Description: &Field[string]{Value: req.Transcript, Confidence: 0.2},
		Confidence:  minOverallConfidence,
		Method:      MethodTraditional,
		Errors:      errs,
		Warnings:    warnings,
	}
}
