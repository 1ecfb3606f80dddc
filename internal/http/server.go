// Package http provides the HTTP API for voicepipe.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lexohub/voicepipe/internal/docclass"
	"github.com/lexohub/voicepipe/internal/extraction"
	"github.com/lexohub/voicepipe/internal/interpreter"
	"github.com/lexohub/voicepipe/internal/llm"
	"github.com/lexohub/voicepipe/internal/navigation"
)

// Config holds HTTP server configuration.
type Config struct {
	Host    string
	Port    int
	Version string
	// DefaultOptions is applied when a request omits its options.
	DefaultOptions extraction.Options
}

// Server provides HTTP endpoints for voicepipe.
type Server struct {
	echo        *echo.Echo
	interpreter *interpreter.Interpreter
	coordinator *extraction.Coordinator
	classifier  *navigation.Classifier
	documents   *docclass.Classifier
	llmClient   llm.Client
	logger      *zap.Logger
	config      *Config
}

// NewServer creates a new HTTP server.
func NewServer(
	interp *interpreter.Interpreter,
	coordinator *extraction.Coordinator,
	classifier *navigation.Classifier,
	documents *docclass.Classifier,
	llmClient llm.Client,
	logger *zap.Logger,
	cfg *Config,
) (*Server, error) {
	if interp == nil || coordinator == nil || classifier == nil || documents == nil {
		return nil, fmt.Errorf("all pipeline components are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host:           "127.0.0.1",
			Port:           9090,
			DefaultOptions: extraction.DefaultOptions(),
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())

	s := &Server{
		echo:        e,
		interpreter: interp,
		coordinator: coordinator,
		classifier:  classifier,
		documents:   documents,
		llmClient:   llmClient,
		logger:      logger,
		config:      cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/interpret", s.handleInterpret)
	v1.POST("/extract", s.handleExtract)
	v1.POST("/navigate", s.handleNavigate)
	v1.POST("/documents/classify", s.handleClassifyDocument)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   s.config.Version,
		LLMOnline: s.llmClient != nil && s.llmClient.Available(),
	})
}

func (s *Server) handleInterpret(c echo.Context) error {
	var req InterpretRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid interpret request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Transcript == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transcript field is required")
	}

	outcome := s.interpreter.Interpret(c.Request().Context(), extraction.Request{
		Transcript: req.Transcript,
		Candidates: req.Candidates,
		Options:    s.resolveOptions(req.Options),
	})

	return c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleExtract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid extract request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Transcript == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transcript field is required")
	}

	entry := s.coordinator.Extract(c.Request().Context(), extraction.Request{
		Transcript: req.Transcript,
		Candidates: req.Candidates,
		Options:    s.resolveOptions(req.Options),
	})

	return c.JSON(http.StatusOK, entry)
}

func (s *Server) handleNavigate(c echo.Context) error {
	var req NavigateRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid navigate request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Transcript == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transcript field is required")
	}

	result := s.classifier.Classify(c.Request().Context(), req.Transcript)
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleClassifyDocument(c echo.Context) error {
	var req ClassifyDocumentRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid document classify request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Document.Filename == "" && req.Document.FirstPageText == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "document filename or first_page_text is required")
	}

	result := s.documents.Classify(c.Request().Context(), req.Document)
	return c.JSON(http.StatusOK, result)
}

// resolveOptions applies server defaults when the request omits options.
func (s *Server) resolveOptions(opts *extraction.Options) extraction.Options {
	if opts == nil {
		return s.config.DefaultOptions
	}
	return *opts
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
