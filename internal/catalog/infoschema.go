package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// infoSchemaInspector reads the standard information_schema views shared
// by PostgreSQL and MySQL. The two engines differ in how the current
// schema is addressed and in bind-placeholder syntax, so both are
// parameters.
type infoSchemaInspector struct {
	schemaExpr  string // current_schema() or DATABASE()
	placeholder string // $1 or ?
}

var _ inspector = infoSchemaInspector{}

func (i infoSchemaInspector) Inspect(ctx context.Context, db *sql.DB) (DatabaseSchema, error) {
	tables, err := i.listTables(ctx, db)
	if err != nil {
		return nil, err
	}

	schema := make(DatabaseSchema, len(tables))
	for _, table := range tables {
		cols, err := i.tableColumns(ctx, db, table)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table, err)
		}
		schema[table] = cols
	}
	return schema, nil
}

func (i infoSchemaInspector) listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = %s
		AND TABLE_TYPE = 'BASE TABLE'
		AND TABLE_NAME NOT LIKE 'goose_%%'
	`, i.schemaExpr)

	rows, err := db.QueryContext(ctx, query)
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
	return tables, rows.Err()
}

// tableColumns fetches column metadata ordered by ORDINAL_POSITION, which
// is the declaration order.
func (i infoSchemaInspector) tableColumns(ctx context.Context, db *sql.DB, table string) (TableSchema, error) {
	query := fmt.Sprintf(`
		SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = %s
		AND TABLE_NAME = %s
		ORDER BY ORDINAL_POSITION
	`, i.schemaExpr, i.placeholder)

	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cols TableSchema
	for rows.Next() {
		var name, declType string
		if err := rows.Scan(&name, &declType); err != nil {
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
