package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Database string
	Format   string
	Input    string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run read-only SQL against a registered database",
		Long: `Run SQL against one of the registered databases.

Connections are opened read-only, so the command is safe for exploring
data; use the HTTP API for statements that modify rows. Supports
multiple output formats for scripting and integration.

When invoked without arguments, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  sqldash query -d flights "SELECT * FROM flights LIMIT 5"

  # List tables in a database
  sqldash query tables -d flights

  # Show the columns of a table
  sqldash query schema transactions -d transactions

  # Output as JSON
  sqldash query -d flights "SELECT airline, price FROM flights" --format json

  # Interactive mode
  sqldash query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	// Flags shared with the subcommands
	cmd.PersistentFlags().StringVarP(&opts.Database, "db", "d", "", "Database to query")
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	// Subcommands
	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	// Determine SQL source
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, cmdCtx, opts)
	}

	dbName, err := resolveDatabase(cmdCtx, opts)
	if err != nil {
		return err
	}

	return executeAndRender(cmd.Context(), cmd, cmdCtx, dbName, sqlQuery, opts.Format)
}

// resolveDatabase picks the database to run against. The flag wins; without
// it the choice is only implicit when a single database is registered.
func resolveDatabase(cmdCtx *CommandContext, opts *QueryOptions) (string, error) {
	if opts.Database != "" {
		if _, err := cmdCtx.Registry.Lookup(opts.Database); err != nil {
			return "", err
		}
		return opts.Database, nil
	}

	names := cmdCtx.Registry.Names()
	if len(names) == 1 {
		return names[0], nil
	}
	return "", fmt.Errorf("select a database with --db (registered: %s)", strings.Join(names, ", "))
}

func executeAndRender(ctx context.Context, cmd *cobra.Command, cmdCtx *CommandContext, dbName, sqlQuery, format string) error {
	db, err := cmdCtx.Registry.OpenReadOnly(dbName)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	rs, err := collectRows(rows)
	if err != nil {
		return err
	}
	return renderResultSet(cmd.OutOrStdout(), rs, format)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in a database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			dbName, err := resolveDatabase(cmdCtx, opts)
			if err != nil {
				return err
			}
			return listTables(cmd, cmdCtx, dbName, opts.Format)
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show columns for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			dbName, err := resolveDatabase(cmdCtx, opts)
			if err != nil {
				return err
			}
			return showTableSchema(cmd, cmdCtx, dbName, args[0], opts.Format)
		},
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
