// Package home serves the dashboard page.
package home

import (
	"net/http"

	"github.com/sqldash-labs/sqldash/internal/registry"
	"github.com/sqldash-labs/sqldash/internal/server/features/common"
	"github.com/sqldash-labs/sqldash/internal/server/resources"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	registry *registry.Registry
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reg *registry.Registry) *Handlers {
	return &Handlers{registry: reg}
}

// IndexPage serves the dashboard shell.
func (h *Handlers) IndexPage(w http.ResponseWriter, r *http.Request) {
	page, err := resources.Index()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// Health reports liveness and the number of registered databases.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"databases": h.registry.Len(),
	})
}
