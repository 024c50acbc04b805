// Package catalog inspects registered databases and reports their user
// tables with typed, classified columns.
//
// Snapshots are recomputed on every call and never cached; callers see
// whatever the underlying catalog reports at that moment.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sqldash-labs/sqldash/internal/registry"
)

// ColumnDescriptor describes one column of a user table.
type ColumnDescriptor struct {
	Name         string   `json:"name"`
	DeclaredType string   `json:"type"`
	Category     Category `json:"category"`
}

// Display returns the column's dashboard label, combining name and
// category.
func (c ColumnDescriptor) Display() string {
	return fmt.Sprintf("%s [%s]", c.Name, c.Category)
}

// TableSchema lists a table's columns in declaration order.
type TableSchema []ColumnDescriptor

// DatabaseSchema maps table names to their schemas.
type DatabaseSchema map[string]TableSchema

// Snapshot maps database names to their schemas.
type Snapshot map[string]DatabaseSchema

// Display flattens the snapshot into the wire shape served by the schema
// endpoint: database name to table name to ordered column display strings.
func (s Snapshot) Display() map[string]map[string][]string {
	out := make(map[string]map[string][]string, len(s))
	for dbName, tables := range s {
		out[dbName] = make(map[string][]string, len(tables))
		for tableName, cols := range tables {
			labels := make([]string, len(cols))
			for i, col := range cols {
				labels[i] = col.Display()
			}
			out[dbName][tableName] = labels
		}
	}
	return out
}

// inspector lists user tables and their columns for one engine family.
type inspector interface {
	Inspect(ctx context.Context, db *sql.DB) (DatabaseSchema, error)
}

// inspectorFor picks the catalog strategy for a driver. SQLite and DuckDB
// share the sqlite_master surface; PostgreSQL and MySQL are served through
// information_schema.
func inspectorFor(driver string) inspector {
	switch driver {
	case registry.DriverPostgres:
		return infoSchemaInspector{schemaExpr: "current_schema()", placeholder: "$1"}
	case registry.DriverMySQL:
		return infoSchemaInspector{schemaExpr: "DATABASE()", placeholder: "?"}
	default:
		return pragmaInspector{}
	}
}

// GetSchema inspects every database in the registry and returns a fresh
// snapshot. An unreachable database fails the whole operation with an
// error naming it; there is no partial result.
func GetSchema(ctx context.Context, reg *registry.Registry) (Snapshot, error) {
	snap := make(Snapshot, reg.Len())
	for _, name := range reg.Names() {
		dbSchema, err := InspectDatabase(ctx, reg, name)
		if err != nil {
			return nil, fmt.Errorf("inspect database %q: %w", name, err)
		}
		snap[name] = dbSchema
	}
	return snap, nil
}

// InspectDatabase returns the table schemas of a single registered
// database. The read-only connection opened for the call is released
// before returning.
func InspectDatabase(ctx context.Context, reg *registry.Registry, name string) (DatabaseSchema, error) {
	entry, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	db, err := reg.OpenReadOnly(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	return inspectorFor(entry.Driver).Inspect(ctx, db)
}
