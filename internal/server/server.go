// Package server provides the HTTP backend for sqldash.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/sqldash-labs/sqldash/internal/registry"
	"github.com/sqldash-labs/sqldash/internal/server/router"
	"github.com/sqldash-labs/sqldash/internal/sqlexec"
)

// Server is the main HTTP server.
type Server struct {
	registry *registry.Registry
	executor *sqlexec.Executor
	host     string
	port     int
	logger   *slog.Logger
}

// Config holds configuration for the server.
type Config struct {
	Registry *registry.Registry
	Host     string
	Port     int
	Logger   *slog.Logger
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Server{
		registry: cfg.Registry,
		executor: sqlexec.New(cfg.Registry, logger),
		host:     cfg.Host,
		port:     cfg.Port,
		logger:   logger,
	}
}

// Handler builds the full route tree. It is split out from Serve so tests
// can drive the server without a listener.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.registry, s.executor, s.logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	s.logger.Info("starting server", "addr", addr, "databases", s.registry.Len())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
