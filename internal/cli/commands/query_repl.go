package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/sqldash-labs/sqldash/internal/catalog"
)

// replSession carries the REPL state: the current database and its open
// read-only handle.
type replSession struct {
	cmdCtx *CommandContext
	dbName string
	db     *sql.DB
	format string
}

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, opts *QueryOptions) error {
	ctx := cmd.Context()

	dbName, err := resolveREPLDatabase(cmdCtx, opts)
	if err != nil {
		return err
	}

	db, err := cmdCtx.Registry.OpenReadOnly(dbName)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	s := &replSession{
		cmdCtx: cmdCtx,
		dbName: dbName,
		db:     db,
		format: opts.Format,
	}
	defer func() { _ = s.db.Close() }()

	// Get table and database names for completion
	completer := newREPLCompleter(ctx, cmdCtx)

	// Configure readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.dbName + "> ",
		HistoryFile:     historyPath(),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sqldash query REPL (database: %s)\n", s.dbName)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	// REPL loop
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(s.dbName + "> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if strings.HasPrefix(line, ".") {
			if s.handleDotCommand(ctx, cmd, line) {
				break
			}
			rl.SetPrompt(s.dbName + "> ")
			continue
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt(s.dbName + "> ")

		// Execute query
		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		if err := s.executeAndRender(ctx, cmd, query); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// resolveREPLDatabase picks the starting database. Without a flag the REPL
// starts on the first registered name; .use switches later.
func resolveREPLDatabase(cmdCtx *CommandContext, opts *QueryOptions) (string, error) {
	if opts.Database != "" {
		if _, err := cmdCtx.Registry.Lookup(opts.Database); err != nil {
			return "", err
		}
		return opts.Database, nil
	}

	names := cmdCtx.Registry.Names()
	if len(names) == 0 {
		return "", fmt.Errorf("no databases registered")
	}
	return names[0], nil
}

func (s *replSession) executeAndRender(ctx context.Context, cmd *cobra.Command, query string) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	rs, err := collectRows(rows)
	if err != nil {
		return err
	}
	return renderResultSet(cmd.OutOrStdout(), rs, s.format)
}

// switchDatabase swaps the session over to another registered database.
func (s *replSession) switchDatabase(name string) error {
	db, err := s.cmdCtx.Registry.OpenReadOnly(name)
	if err != nil {
		return err
	}

	_ = s.db.Close()
	s.db = db
	s.dbName = name
	return nil
}

// handleDotCommand runs one dot-command. It returns true when the REPL
// should exit.
func (s *replSession) handleDotCommand(ctx context.Context, cmd *cobra.Command, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".databases":
		for _, name := range s.cmdCtx.Registry.Names() {
			marker := " "
			if name == s.dbName {
				marker = "*"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
		}

	case ".use":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .use <database>")
			return false
		}
		if err := s.switchDatabase(parts[1]); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return false
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", s.dbName)

	case ".tables":
		schema, err := catalog.InspectDatabase(ctx, s.cmdCtx.Registry, s.dbName)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return false
		}
		if err := renderTableList(cmd.OutOrStdout(), schema, s.format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .schema <table>")
			return false
		}
		if err := showTableSchema(cmd, s.cmdCtx, s.dbName, parts[1], s.format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}

	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .databases       List registered databases
  .use <database>  Switch to another database
  .tables          List tables in the current database
  .schema <name>   Show columns for a table
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table and database names
`
	_, _ = fmt.Fprintln(w, help)
}

// historyPath returns the per-user history file, or empty to disable
// persistent history.
func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "sqldash")
	if err := os.MkdirAll(path, 0750); err != nil {
		return ""
	}
	return filepath.Join(path, "query_history")
}

// newREPLCompleter creates a readline completer covering dot-commands,
// database names and the table names of every reachable database.
func newREPLCompleter(ctx context.Context, cmdCtx *CommandContext) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	var dbItems []readline.PrefixCompleterInterface

	for _, name := range cmdCtx.Registry.Names() {
		dbItems = append(dbItems, readline.PcItem(name))

		schema, err := catalog.InspectDatabase(ctx, cmdCtx.Registry, name)
		if err != nil {
			// Unreachable databases simply contribute no completions.
			continue
		}
		tables := make([]string, 0, len(schema))
		for t := range schema {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		for _, t := range tables {
			items = append(items, readline.PcItem(t))
		}
	}

	// Add dot-commands
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".databases"),
		readline.PcItem(".use", dbItems...),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
