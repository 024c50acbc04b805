package query

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/sqldash-labs/sqldash/internal/sqlexec"
)

// SetupRoutes registers the query feature routes.
func SetupRoutes(router chi.Router, executor *sqlexec.Executor, logger *slog.Logger) error {
	handlers := NewHandlers(executor, logger)

	router.Post("/api/query", handlers.Execute)

	return nil
}
