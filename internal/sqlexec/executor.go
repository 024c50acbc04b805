// Package sqlexec runs ad-hoc SQL statements against registered databases
// and shapes the outcome into a uniform result envelope. Failures inside
// the engine, including statements against unknown databases, become
// error-shaped results rather than Go errors, so callers can hand the
// envelope straight to a client.
package sqlexec

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sqldash-labs/sqldash/internal/registry"
)

// Result is the uniform outcome of executing one statement. Success and
// Error are mutually exclusive, and a failed result never carries columns
// or rows.
type Result struct {
	Success bool
	Columns []string
	Rows    [][]Cell
	Error   string
}

// Failure returns the error-shaped result for err.
func Failure(err error) Result {
	return Result{Error: err.Error()}
}

// MarshalJSON renders the envelope with all four fields always present.
// Empty column and row sets encode as [] and a missing error as null.
func (r Result) MarshalJSON() ([]byte, error) {
	type envelope struct {
		Success bool     `json:"success"`
		Columns []string `json:"columns"`
		Rows    [][]Cell `json:"rows"`
		Error   *string  `json:"error"`
	}
	env := envelope{Success: r.Success, Columns: r.Columns, Rows: r.Rows}
	if env.Columns == nil {
		env.Columns = []string{}
	}
	if env.Rows == nil {
		env.Rows = [][]Cell{}
	}
	if !r.Success {
		msg := r.Error
		env.Error = &msg
	}
	return json.Marshal(env)
}

// Executor executes statements against databases resolved through a
// registry. Each call opens its own handle and closes it before
// returning, so no connection outlives the call that made it.
type Executor struct {
	reg    *registry.Registry
	logger *slog.Logger
}

// New returns an executor over the given registry.
func New(reg *registry.Registry, logger *slog.Logger) *Executor {
	return &Executor{reg: reg, logger: logger}
}

// Execute runs a single statement against the named database. The
// statement is passed to the engine verbatim. Statements that return no
// result set, such as INSERT on sqlite, yield a successful envelope with
// empty columns and rows.
func (e *Executor) Execute(ctx context.Context, dbName, query string) Result {
	e.logger.Debug("executing query", "database", dbName)

	db, err := e.reg.Open(dbName)
	if err != nil {
		e.logger.Debug("query failed", "database", dbName, "error", err)
		return Failure(err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		e.logger.Debug("query failed", "database", dbName, "error", err)
		return Failure(err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return Failure(err)
	}

	var out [][]Cell
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Failure(err)
		}

		row := make([]Cell, len(cols))
		for i, v := range values {
			row[i] = NewCell(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return Failure(err)
	}

	return Result{Success: true, Columns: cols, Rows: out}
}
