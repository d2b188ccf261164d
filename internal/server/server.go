// Package server exposes the codec over HTTP: documents posted in one
// format come back in the format the Accept header asks for, and records
// can be persisted to and read from the record store.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/geoknoesis/structwsf/internal/config"
	"github.com/geoknoesis/structwsf/recordstore"
	"github.com/geoknoesis/structwsf/resultset"
)

// Server is the conversion endpoint.
type Server struct {
	echo        *echo.Echo
	cfg         config.ServerConfig
	logger      *slog.Logger
	prefixes    *resultset.PrefixRegistry
	transformer resultset.LinkedTransformer
	records     *recordstore.DB
	metrics     *resultset.Metrics
	registry    *prometheus.Registry
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPrefixes sets the registry documents are decoded against.
func WithPrefixes(prefixes *resultset.PrefixRegistry) Option {
	return func(s *Server) {
		s.prefixes = prefixes
	}
}

// WithTransformer enables the linked JSON and CSV output formats.
func WithTransformer(t resultset.LinkedTransformer) Option {
	return func(s *Server) {
		s.transformer = t
	}
}

// WithRecordStore enables the /records and /datasets routes.
func WithRecordStore(db *recordstore.DB) Option {
	return func(s *Server) {
		s.records = db
	}
}

// New builds a server and registers its routes and metrics.
func New(cfg config.ServerConfig, opts ...Option) (*Server, error) {
	s := &Server{
		echo:     echo.New(),
		cfg:      cfg,
		logger:   slog.New(slog.DiscardHandler),
		prefixes: resultset.NewPrefixRegistry(),
		metrics:  resultset.NewMetrics(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.metrics.Register(s.registry); err != nil {
		return nil, err
	}
	if err := s.registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	if cfg.BodyLimit != "" {
		s.echo.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.cfg.Addr)
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Failed to shutdown server", "err", err)
		return err
	}
	return nil
}
