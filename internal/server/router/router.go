// Package router sets up HTTP routes for the server.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/sqldash-labs/sqldash/internal/registry"
	homeFeature "github.com/sqldash-labs/sqldash/internal/server/features/home"
	queryFeature "github.com/sqldash-labs/sqldash/internal/server/features/query"
	schemaFeature "github.com/sqldash-labs/sqldash/internal/server/features/schema"
	"github.com/sqldash-labs/sqldash/internal/server/resources"
	"github.com/sqldash-labs/sqldash/internal/sqlexec"
)

// SetupRoutes configures all routes for the server.
func SetupRoutes(
	router chi.Router,
	reg *registry.Registry,
	executor *sqlexec.Executor,
	logger *slog.Logger,
) error {
	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := homeFeature.SetupRoutes(router, reg); err != nil {
		return err
	}

	if err := schemaFeature.SetupRoutes(router, reg, logger); err != nil {
		return err
	}

	if err := queryFeature.SetupRoutes(router, executor, logger); err != nil {
		return err
	}

	return nil
}
