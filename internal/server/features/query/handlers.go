// Package query exposes ad-hoc SQL execution over HTTP.
package query

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sqldash-labs/sqldash/internal/server/features/common"
	"github.com/sqldash-labs/sqldash/internal/sqlexec"
)

// Request is the body of a query call.
type Request struct {
	DB    string `json:"db"`
	Query string `json:"query"`
}

// Handlers provides HTTP handlers for the query feature.
type Handlers struct {
	executor *sqlexec.Executor
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(executor *sqlexec.Executor, logger *slog.Logger) *Handlers {
	return &Handlers{executor: executor, logger: logger}
}

// Execute runs one statement against the requested database and responds
// with the result envelope. Execution failures, including unknown database
// names, come back as 200 responses with an error-shaped envelope; only a
// malformed request is rejected outright.
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.DB == "" || req.Query == "" {
		common.WriteError(w, http.StatusBadRequest, "Missing 'db' or 'query' parameter")
		return
	}

	id := uuid.New().String()
	start := time.Now()
	res := h.executor.Execute(r.Context(), req.DB, req.Query)
	h.logger.Info("query executed",
		"id", id,
		"database", req.DB,
		"success", res.Success,
		"rows", len(res.Rows),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	common.WriteJSON(w, http.StatusOK, res)
}
