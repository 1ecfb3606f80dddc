// Package llm provides completion clients for hosted language model
// providers. Clients make a single attempt per Complete call; retry
// policy belongs to the caller, which can classify failures with
// IsRetryable.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultAnthropicModel   = "claude-3-5-sonnet-20241022"
	defaultOpenAIBaseURL    = "https://api.openai.com"
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultMaxTokens        = 1024
	defaultTimeout          = 60 * time.Second
)

// Rate limiter defaults: 50 requests per minute for both APIs.
const (
	defaultRateLimit = 50.0 / 60.0 // ~0.83 requests per second
	defaultBurst     = 5           // Allow bursts of up to 5 requests
)

// ErrUnavailable indicates the provider reported itself temporarily
// unavailable (503). Callers treat this as terminal rather than
// burning retries against a provider that has already said no.
var ErrUnavailable = errors.New("provider temporarily unavailable")

// Client generates a completion for a prompt.
type Client interface {
	// Complete sends the prompt and returns the raw text response.
	Complete(ctx context.Context, prompt string) (string, error)

	// Available returns true if the client is configured and ready.
	Available() bool
}

// Config holds provider-specific configuration.
type Config struct {
	Provider  string `koanf:"provider"` // "anthropic" or "openai"
	Model     string `koanf:"model"`
	APIKey    string `koanf:"api_key"`
	BaseURL   string `koanf:"base_url"`
	MaxTokens int    `koanf:"max_tokens"`
	Timeout   int    `koanf:"timeout"` // seconds
}

// New creates a completion client based on configuration.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "anthropic":
		return newAnthropicClient(cfg)
	case "openai":
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// RetryableError wraps an error to indicate it can be retried.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var re *RetryableError
	return errors.As(err, &re)
}
