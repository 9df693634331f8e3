package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"meridian-hq/crosswind/pkg/alerts"
	"meridian-hq/crosswind/pkg/config"
	"meridian-hq/crosswind/pkg/copywriter"
	"meridian-hq/crosswind/pkg/genai"
	"meridian-hq/crosswind/pkg/insights"
	"meridian-hq/crosswind/pkg/optimizer"
	"meridian-hq/crosswind/pkg/pipeline"
	"meridian-hq/crosswind/pkg/scheduler"
	"meridian-hq/crosswind/pkg/server/handlers"
	"meridian-hq/crosswind/pkg/server/middleware"
	"meridian-hq/crosswind/pkg/store"
	"meridian-hq/crosswind/pkg/telemetry/health"
	"meridian-hq/crosswind/pkg/telemetry/metrics"
)

// Components carries everything the API surface exposes. Pipeline,
// Store, Alerts, Insights, Optimizer and Copy back the /api routes;
// the rest are optional: a nil Client reports zero usage, a nil
// Scheduler drops the scheduler status section, a nil Health checker
// makes /ready always ready, and a nil Metrics collector disables
// both recording and the /metrics route.
type Components struct {
	Pipeline  *pipeline.Pipeline
	Store     store.Store
	Alerts    *alerts.Manager
	Insights  *insights.Agent
	Optimizer *optimizer.Optimizer
	Copy      *copywriter.Generator
	Client    *genai.MeteredClient
	Scheduler *scheduler.Scheduler
	Health    *health.Checker
	Metrics   *metrics.Collector

	// Build identity served by / and /version.
	Version   string
	Commit    string
	BuildTime string
}

// Server is the crosswind HTTP API server.
type Server struct {
	config       *config.ServerConfig
	metricsCfg   *config.MetricsConfig
	components   Components
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates the API server. metricsCfg controls whether and
// where the Prometheus exposition route is mounted; it may be nil.
func NewServer(cfg *config.ServerConfig, metricsCfg *config.MetricsConfig, comps Components) *Server {
	return &Server{
		config:       cfg,
		metricsCfg:   metricsCfg,
		components:   comps,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting API server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("API server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", handlers.NewIndexHandler(s.components.Version))

	checker := s.components.Health
	if checker == nil {
		checker = health.New(0)
	}
	health.Mount(mux, checker, s.components.Version, s.components.Commit, s.components.BuildTime)

	if s.metricsCfg != nil && s.metricsCfg.Enabled && s.metricsCfg.Path != "" && s.components.Metrics != nil {
		mux.Handle(s.metricsCfg.Path, s.components.Metrics.Handler())
	}

	mux.Handle("/api/collect", handlers.NewCollectHandler(s.components.Pipeline))
	mux.Handle("/api/alerts", handlers.NewAlertsHandler(s.components.Store, s.components.Alerts))
	mux.Handle("/api/optimize", handlers.NewOptimizeHandler(s.components.Store, s.components.Optimizer))
	mux.Handle("/api/insights", handlers.NewInsightsHandler(s.components.Store, s.components.Insights))
	mux.Handle("/api/usage", handlers.NewUsageHandler(s.components.Client))
	mux.Handle("/api/reports", handlers.NewReportsHandler(s.components.Pipeline))
	mux.Handle("/api/copy", handlers.NewCopyHandler(s.components.Copy))
	mux.Handle("/api/status", handlers.NewStatusHandler(s.components.Client, s.components.Scheduler))

	var handler http.Handler = mux

	if s.config.RequestTimeout > 0 {
		handler = middleware.Timeout(s.config.RequestTimeout)(handler)
	}

	handler = middleware.CORS(&s.config.CORS)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	// RequestID sits outside Recovery and Logging so both see the ID.
	handler = middleware.RequestID(handler)

	// Outermost so recovered panics still count as 500s.
	handler = middleware.Metrics(s.components.Metrics)(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Health reports whether the server is running and, when a checker is
// configured, whether every registered component probe passes.
func (s *Server) Health(ctx context.Context) error {
	if !s.IsRunning() {
		return fmt.Errorf("server is not running")
	}

	if s.components.Health != nil {
		status := s.components.Health.CheckReadiness(ctx)
		if status.Status != "ready" {
			return fmt.Errorf("service %s", status.Status)
		}
	}

	return nil
}
