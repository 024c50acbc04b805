package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sqldash-labs/sqldash/internal/catalog"
	"github.com/sqldash-labs/sqldash/internal/sqlexec"
)

// resultSet holds one query's output with columns in select order.
type resultSet struct {
	Columns []string
	Rows    [][]sqlexec.Cell
}

// collectRows drains rows into a resultSet.
func collectRows(rows *sql.Rows) (*resultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &resultSet{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		cells := make([]sqlexec.Cell, len(cols))
		for i, v := range values {
			cells[i] = sqlexec.NewCell(v)
		}
		rs.Rows = append(rs.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

func renderResultSet(w io.Writer, rs *resultSet, format string) error {
	switch format {
	case "json":
		return renderJSON(w, rs)
	case "csv":
		return renderCSV(w, rs)
	case "md", "markdown":
		return renderMarkdown(w, rs)
	default:
		return renderTable(w, rs)
	}
}

func renderTable(w io.Writer, rs *resultSet) error {
	if len(rs.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	// Header
	headerRow := make(table.Row, len(rs.Columns))
	for i, col := range rs.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	// Rows
	for _, cells := range rs.Rows {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c.String()
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rs.Rows))
	return nil
}

// renderJSON emits one object per row, with values typed the same way the
// HTTP API types them.
func renderJSON(w io.Writer, rs *resultSet) error {
	out := make([]map[string]sqlexec.Cell, 0, len(rs.Rows))
	for _, cells := range rs.Rows {
		row := make(map[string]sqlexec.Cell, len(rs.Columns))
		for i, col := range rs.Columns {
			row[col] = cells[i]
		}
		out = append(out, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderCSV(w io.Writer, rs *resultSet) error {
	// Header
	_, _ = fmt.Fprintln(w, strings.Join(rs.Columns, ","))

	// Rows
	for _, cells := range rs.Rows {
		values := make([]string, len(cells))
		for i, c := range cells {
			values[i] = escapeCSV(c.String())
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, rs *resultSet) error {
	if len(rs.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	// Header
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(rs.Columns, " | "))
	// Separator
	seps := make([]string, len(rs.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	// Rows
	for _, cells := range rs.Rows {
		values := make([]string, len(cells))
		for i, c := range cells {
			values[i] = c.String()
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// Helper functions for subcommands

func listTables(cmd *cobra.Command, cmdCtx *CommandContext, dbName, format string) error {
	schema, err := catalog.InspectDatabase(cmd.Context(), cmdCtx.Registry, dbName)
	if err != nil {
		return err
	}
	return renderTableList(cmd.OutOrStdout(), schema, format)
}

func renderTableList(w io.Writer, schema catalog.DatabaseSchema, format string) error {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	rs := &resultSet{Columns: []string{"table", "columns"}}
	for _, name := range names {
		rs.Rows = append(rs.Rows, []sqlexec.Cell{
			sqlexec.NewCell(name),
			sqlexec.NewCell(int64(len(schema[name]))),
		})
	}
	return renderResultSet(w, rs, format)
}

func showTableSchema(cmd *cobra.Command, cmdCtx *CommandContext, dbName, tableName, format string) error {
	schema, err := catalog.InspectDatabase(cmd.Context(), cmdCtx.Registry, dbName)
	if err != nil {
		return err
	}

	cols, ok := schema[tableName]
	if !ok {
		return fmt.Errorf("table %q not found in database %q", tableName, dbName)
	}
	return renderTableSchema(cmd.OutOrStdout(), tableName, cols, format)
}

func renderTableSchema(w io.Writer, tableName string, cols catalog.TableSchema, format string) error {
	if format == "json" {
		out := struct {
			Name    string              `json:"name"`
			Columns catalog.TableSchema `json:"columns"`
		}{Name: tableName, Columns: cols}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	_, _ = fmt.Fprintf(w, "Table: %s\n", tableName)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Category"})

	for _, col := range cols {
		t.AppendRow(table.Row{col.Name, col.DeclaredType, col.Category.String()})
	}
	t.Render()
	return nil
}
