package telemetry

import (
	"fmt"
	"time"
)

// Config holds OpenTelemetry configuration.
type Config struct {
	Enabled         bool          `koanf:"enabled"`
	ServiceName     string        `koanf:"service_name"`
	ServiceVersion  string        `koanf:"service_version"`
	Endpoint        string        `koanf:"endpoint"`
	Protocol        string        `koanf:"protocol"`
	Insecure        bool          `koanf:"insecure"`
	TLSSkipVerify   bool          `koanf:"tls_skip_verify"`
	SampleRate      float64       `koanf:"sample_rate"`
	MetricsEnabled  bool          `koanf:"metrics_enabled"`
	MetricsInterval time.Duration `koanf:"metrics_interval"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// NewDefaultConfig returns telemetry config with sane defaults.
// Telemetry is off unless explicitly enabled.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:         false,
		ServiceName:     "voicepipe",
		ServiceVersion:  "dev",
		Endpoint:        "localhost:4317",
		Protocol:        "grpc",
		SampleRate:      1.0,
		MetricsEnabled:  true,
		MetricsInterval: 30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service name required when telemetry enabled")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required when telemetry enabled")
	}
	if c.Protocol != "" && c.Protocol != "grpc" && c.Protocol != "http/protobuf" {
		return fmt.Errorf("protocol must be 'grpc' or 'http/protobuf', got %q", c.Protocol)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample rate must be in [0,1], got %v", c.SampleRate)
	}
	if c.MetricsEnabled && c.MetricsInterval <= 0 {
		return fmt.Errorf("metrics interval must be > 0 when metrics enabled")
	}
	return nil
}
