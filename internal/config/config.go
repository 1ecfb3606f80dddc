// Package config provides configuration loading for voicepipe.
package config

import (
	"fmt"
	"time"

	"github.com/lexohub/voicepipe/internal/llm"
	"github.com/lexohub/voicepipe/internal/logging"
)

// Config is the root configuration for the voicepipe daemon.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    logging.Config   `koanf:"logging"`
	LLM        llm.Config       `koanf:"llm"`
	Extraction ExtractionConfig `koanf:"extraction"`
	Navigation NavigationConfig `koanf:"navigation"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ExtractionConfig carries the default extraction options. Per-request
// options override these. Fallback is on unless disabled, so the flag
// is inverted to keep the zero value useful.
type ExtractionConfig struct {
	ConfidenceThreshold float64 `koanf:"confidence_threshold"`
	MaxRetries          int     `koanf:"max_retries"`
	DisableFallback     bool    `koanf:"disable_fallback"`
	ForceTraditional    bool    `koanf:"force_traditional"`
}

// NavigationConfig controls the command classifier.
type NavigationConfig struct {
	MinConfidence float64 `koanf:"min_confidence"`
}

// TelemetryConfig controls OTLP export.
type TelemetryConfig struct {
	Enabled       bool    `koanf:"enabled"`
	Endpoint      string  `koanf:"endpoint"`
	Protocol      string  `koanf:"protocol"`
	Insecure      bool    `koanf:"insecure"`
	TLSSkipVerify bool    `koanf:"tls_skip_verify"`
	SampleRate    float64 `koanf:"sample_rate"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9090
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Fields == nil {
		cfg.Logging.Fields = map[string]string{"service": "voicepipe"}
	}
	if cfg.Logging.Redaction.Patterns == nil {
		cfg.Logging.Redaction = logging.NewDefaultConfig().Redaction
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "anthropic"
	}

	if cfg.Extraction.ConfidenceThreshold == 0 {
		cfg.Extraction.ConfidenceThreshold = 0.6
	}
	if cfg.Extraction.MaxRetries == 0 {
		cfg.Extraction.MaxRetries = 2
	}

	if cfg.Navigation.MinConfidence == 0 {
		cfg.Navigation.MinConfidence = 0.5
	}

	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.Endpoint == "" {
			cfg.Telemetry.Endpoint = "localhost:4317"
		}
		if cfg.Telemetry.Protocol == "" {
			cfg.Telemetry.Protocol = "grpc"
		}
		if cfg.Telemetry.SampleRate == 0 {
			cfg.Telemetry.SampleRate = 1.0
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in 1-65535, got %d", c.Server.Port)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.LLM.Provider != "anthropic" && c.LLM.Provider != "openai" {
		return fmt.Errorf("llm provider must be 'anthropic' or 'openai', got %q", c.LLM.Provider)
	}
	if c.Extraction.ConfidenceThreshold < 0 || c.Extraction.ConfidenceThreshold > 1 {
		return fmt.Errorf("extraction confidence threshold must be in [0,1], got %v", c.Extraction.ConfidenceThreshold)
	}
	if c.Navigation.MinConfidence < 0 || c.Navigation.MinConfidence > 1 {
		return fmt.Errorf("navigation min confidence must be in [0,1], got %v", c.Navigation.MinConfidence)
	}
	if c.Telemetry.Enabled {
		if c.Telemetry.Protocol != "grpc" && c.Telemetry.Protocol != "http/protobuf" {
			return fmt.Errorf("telemetry protocol must be 'grpc' or 'http/protobuf', got %q", c.Telemetry.Protocol)
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			return fmt.Errorf("telemetry sample rate must be in [0,1], got %v", c.Telemetry.SampleRate)
		}
	}
	return nil
}
