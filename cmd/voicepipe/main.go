// Voicepipe is the LexoHub voice interpretation daemon.
//
// It serves the HTTP API that turns dictated transcripts into app
// commands or structured time-entry drafts, and classifies uploaded
// documents for tiered processing.
//
// Configuration is loaded from ~/.config/voicepipe/config.yaml and
// overridden by environment variables. See internal/config for details.
//
// Usage:
//
//	# Start the daemon with defaults
//	voicepipe
//
//	# Configure via environment
//	SERVER_PORT=9090 LLM_API_KEY=sk-... voicepipe
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lexohub/voicepipe/internal/config"
	"github.com/lexohub/voicepipe/internal/docclass"
	"github.com/lexohub/voicepipe/internal/extraction"
	httpserver "github.com/lexohub/voicepipe/internal/http"
	"github.com/lexohub/voicepipe/internal/interpreter"
	"github.com/lexohub/voicepipe/internal/llm"
	"github.com/lexohub/voicepipe/internal/logging"
	"github.com/lexohub/voicepipe/internal/navigation"
	"github.com/lexohub/voicepipe/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/voicepipe/config.yaml)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  voicepipe           Start the voicepipe daemon\n")
			fmt.Fprintf(os.Stderr, "  voicepipe version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("voicepipe by LexoHub\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the voicepipe daemon and blocks until the context is
// cancelled.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Build logger and telemetry
//  3. Create the LLM client (optional, keyword/pattern paths work without it)
//  4. Wire extractors, classifier, interpreter, and document classifier
//  5. Start HTTP server
//  6. Graceful shutdown on context cancellation
func run(ctx context.Context, configPath string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger)
	}()

	logger.Info("Starting voicepipe",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	tel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()
	if health := tel.Health(); health.Degraded {
		logger.Warn("telemetry degraded, continuing without full instrumentation")
	}

	// The LLM client is optional. Without an API key the daemon runs on
	// keyword classification and pattern extraction alone.
	var llmClient llm.Client
	if cfg.LLM.APIKey != "" {
		llmClient, err = llm.New(cfg.LLM)
		if err != nil {
			return fmt.Errorf("failed to create llm client: %w", err)
		}
		logger.Info("LLM client initialized",
			zap.String("provider", cfg.LLM.Provider),
			logging.RedactedString("api_key", cfg.LLM.APIKey))
	} else {
		logger.Warn("no LLM API key configured, running in pattern-only mode")
	}

	var remote extraction.Remote
	if llmClient != nil {
		remote = extraction.NewRemoteExtractor(llmClient, logger.Named("remote"))
	}
	pattern := extraction.NewPatternExtractor(extraction.PatternConfig{})
	coordinator := extraction.NewCoordinator(remote, pattern, logger.Named("extraction"))

	classifier := navigation.NewClassifier(llmClient, navigation.ClassifierConfig{
		MinConfidence: cfg.Navigation.MinConfidence,
	}, logger.Named("navigation"))

	interp := interpreter.New(classifier, coordinator, logger.Named("interpreter"))

	documents := docclass.NewClassifier(docclass.NewMemoryTemplateCache(), logger.Named("docclass"))

	srv, err := httpserver.NewServer(
		interp,
		coordinator,
		classifier,
		documents,
		llmClient,
		logger.Named("http"),
		&httpserver.Config{
			Host:    cfg.Server.Host,
			Port:    cfg.Server.Port,
			Version: version,
			DefaultOptions: extraction.Options{
				ForceTraditional:    cfg.Extraction.ForceTraditional,
				EnableFallback:      !cfg.Extraction.DisableFallback,
				ConfidenceThreshold: cfg.Extraction.ConfidenceThreshold,
				MaxRetries:          cfg.Extraction.MaxRetries,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// initTelemetry maps the daemon config onto the telemetry package.
func initTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Telemetry, error) {
	tcfg := telemetry.NewDefaultConfig()
	tcfg.Enabled = cfg.Telemetry.Enabled
	tcfg.ServiceVersion = version
	if cfg.Telemetry.Endpoint != "" {
		tcfg.Endpoint = cfg.Telemetry.Endpoint
	}
	if cfg.Telemetry.Protocol != "" {
		tcfg.Protocol = cfg.Telemetry.Protocol
	}
	tcfg.Insecure = cfg.Telemetry.Insecure
	tcfg.TLSSkipVerify = cfg.Telemetry.TLSSkipVerify
	if cfg.Telemetry.SampleRate > 0 {
		tcfg.SampleRate = cfg.Telemetry.SampleRate
	}
	return telemetry.New(ctx, tcfg)
}
