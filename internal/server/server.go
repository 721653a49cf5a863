package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"schedbot/internal/instrumentation"
	"schedbot/internal/logging"
)

// Default timeouts for the webhook server.
const (
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 120 * time.Second
	DefaultIdleTimeout       = 60 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful server shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// PipelineRunner executes one scheduling pipeline run and returns the
// rendered summary.
type PipelineRunner interface {
	Run(ctx context.Context, instructions string) string
}

// Notifier delivers a summary to a chat, best effort.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Server is the webhook HTTP server: one POST endpoint that feeds the
// scheduling pipeline, plus liveness and readiness probes.
type Server struct {
	httpServer *http.Server
	pipeline   PipelineRunner
	notifier   Notifier
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	health     *HealthChecker
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(s *Server) { s.metrics = metrics }
}

// New creates a webhook server listening on addr.
func New(addr string, pipeline PipelineRunner, notifier Notifier, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		pipeline: pipeline,
		notifier: notifier,
		logger:   logging.WithService(logger, "server"),
		metrics:  &instrumentation.Metrics{},
		health:   NewHealthChecker(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.Handle("/webhook", s.WebhookHandler())
	mux.Handle("/healthz", s.health.LivenessHandler())
	mux.Handle("/readyz", s.health.ReadinessHandler())

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	return s
}

// Start starts the server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *Server) Start() error {
	s.logger.Info("starting webhook server", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server. In-flight pipeline runs are
// allowed to complete within the context's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.SetShuttingDown()
	s.logger.Info("shutting down webhook server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
