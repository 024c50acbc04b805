package schema

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/sqldash-labs/sqldash/internal/registry"
)

// SetupRoutes registers the schema feature routes.
func SetupRoutes(router chi.Router, reg *registry.Registry, logger *slog.Logger) error {
	handlers := NewHandlers(reg, logger)

	router.Get("/api/schema", handlers.Snapshot)

	return nil
}
