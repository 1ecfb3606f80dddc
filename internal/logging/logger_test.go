package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithDefaults(t *testing.T) {
	logger, err := New(NewDefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, logger)

	// Must not panic and must accept structured fields.
	logger.Info("test message")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"bad format", &Config{Level: "info", Format: "xml"}},
		{"bad level", &Config{Level: "loud", Format: "json"}},
		{"bad pattern", &Config{
			Level:     "info",
			Format:    "json",
			Redaction: RedactionConfig{Enabled: true, Patterns: []string{"("}},
		}},
		{"empty field value", &Config{
			Level:  "info",
			Format: "json",
			Fields: map[string]string{"service": ""},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
		})
	}
}

func TestNewConsoleFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "console"

	logger, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestRedactorRewritesCredentials(t *testing.T) {
	r, err := newRedactor([]string{`(?i)bearer\s+\S+`, `(?i)api[_-]?key[=:]\s*\S+`})
	require.NoError(t, err)

	assert.Equal(t, "auth [REDACTED]", r.redact("auth Bearer abc123"))
	assert.Equal(t, "using [REDACTED]", r.redact("using api_key=sk-secret"))
	assert.Equal(t, "plain text", r.redact("plain text"))
}

func TestRedactedStringField(t *testing.T) {
	field := RedactedString("api_key", "sk-very-secret")
	assert.Equal(t, "api_key", field.Key)
	assert.Equal(t, "[REDACTED:14]", field.String)
}

func TestNewRedactorRejectsOversizedPattern(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err := newRedactor([]string{string(long)})
	require.Error(t, err)
}
