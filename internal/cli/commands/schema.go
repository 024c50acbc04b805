package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sqldash-labs/sqldash/internal/catalog"
)

// SchemaOptions holds options for the schema command.
type SchemaOptions struct {
	Format string
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	opts := &SchemaOptions{}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show tables and columns for every registered database",
		Long: `Inspect every registered database and print its tables with
typed, classified columns.

The JSON format matches what the HTTP server serves under /api/schema.`,
		Example: `  # Print the full schema
  sqldash schema

  # As JSON, matching the HTTP API
  sqldash schema --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json")

	return cmd
}

func runSchema(cmd *cobra.Command, opts *SchemaOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	snap, err := catalog.GetSchema(cmd.Context(), cmdCtx.Registry)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Display())
	}

	w := cmd.OutOrStdout()
	dbNames := make([]string, 0, len(snap))
	for name := range snap {
		dbNames = append(dbNames, name)
	}
	sort.Strings(dbNames)

	for _, dbName := range dbNames {
		_, _ = fmt.Fprintf(w, "Database: %s\n", dbName)

		tables := snap[dbName]
		if len(tables) == 0 {
			_, _ = fmt.Fprintln(w, "  (no tables)")
			_, _ = fmt.Fprintln(w)
			continue
		}

		tableNames := make([]string, 0, len(tables))
		for name := range tables {
			tableNames = append(tableNames, name)
		}
		sort.Strings(tableNames)

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Table", "Column", "Type", "Category"})

		for _, tableName := range tableNames {
			for _, col := range tables[tableName] {
				t.AppendRow(table.Row{tableName, col.Name, col.DeclaredType, col.Category.String()})
			}
		}
		t.Render()
		_, _ = fmt.Fprintln(w)
	}

	return nil
}
