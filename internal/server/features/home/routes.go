package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/sqldash-labs/sqldash/internal/registry"
)

// SetupRoutes registers the home feature routes.
func SetupRoutes(router chi.Router, reg *registry.Registry) error {
	handlers := NewHandlers(reg)

	router.Get("/", handlers.IndexPage)
	router.Get("/healthz", handlers.Health)

	return nil
}
