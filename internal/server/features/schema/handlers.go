// Package schema exposes schema introspection over HTTP.
package schema

import (
	"log/slog"
	"net/http"

	"github.com/sqldash-labs/sqldash/internal/catalog"
	"github.com/sqldash-labs/sqldash/internal/registry"
	"github.com/sqldash-labs/sqldash/internal/server/features/common"
)

// Handlers provides HTTP handlers for the schema feature.
type Handlers struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reg *registry.Registry, logger *slog.Logger) *Handlers {
	return &Handlers{registry: reg, logger: logger}
}

// Snapshot walks every registered database and returns the full snapshot
// with display-formatted columns. A database that cannot be reached fails
// the whole snapshot.
func (h *Handlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := catalog.GetSchema(r.Context(), h.registry)
	if err != nil {
		h.logger.Error("schema introspection failed", "error", err)
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.WriteJSON(w, http.StatusOK, snap.Display())
}
