package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// pragmaInspector reads the sqlite_master catalog, which both SQLite and
// DuckDB expose. Internal objects and migration bookkeeping tables are
// filtered out so only user tables appear in snapshots.
type pragmaInspector struct{}

var _ inspector = pragmaInspector{}

func (pragmaInspector) Inspect(ctx context.Context, db *sql.DB) (DatabaseSchema, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		AND name NOT LIKE 'sqlite_%'
		AND name NOT LIKE 'goose_%'
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	schema := make(DatabaseSchema, len(tables))
	for _, table := range tables {
		cols, err := pragmaTableColumns(ctx, db, table)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table, err)
		}
		schema[table] = cols
	}
	return schema, nil
}

// pragmaTableColumns fetches column metadata in declaration order.
// PRAGMA doesn't support bind parameters; table names come from the
// sqlite_master listing above, never from user input.
func pragmaTableColumns(ctx context.Context, db *sql.DB, table string) (TableSchema, error) {
	quoted := strings.ReplaceAll(table, "'", "''")
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info('%s')", quoted))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cols TableSchema
	for rows.Next() {
		// Row format: (cid, name, type, notnull, dflt_value, pk).
		// DuckDB reports notnull and pk as booleans, so those scan as any.
		var cid int
		var name, declType string
		var dflt sql.NullString
		var notNull, pk any

		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}

		cols = append(cols, ColumnDescriptor{
			Name:         name,
			DeclaredType: declType,
			Category:     Classify(declType),
		})
	}
	return cols, rows.Err()
}
