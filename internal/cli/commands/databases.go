package commands

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// DatabasesOptions holds options for the databases command.
type DatabasesOptions struct {
	Format string
}

// NewDatabasesCommand creates the databases command.
func NewDatabasesCommand() *cobra.Command {
	opts := &DatabasesOptions{}

	cmd := &cobra.Command{
		Use:   "databases",
		Short: "List registered databases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDatabases(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json")

	return cmd
}

func runDatabases(cmd *cobra.Command, opts *DatabasesOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	type databaseInfo struct {
		Name   string `json:"name"`
		Driver string `json:"driver"`
	}

	infos := make([]databaseInfo, 0, cmdCtx.Registry.Len())
	for _, name := range cmdCtx.Registry.Names() {
		entry, err := cmdCtx.Registry.Lookup(name)
		if err != nil {
			return err
		}
		infos = append(infos, databaseInfo{Name: entry.Name, Driver: entry.Driver})
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Driver"})
	for _, info := range infos {
		t.AppendRow(table.Row{info.Name, info.Driver})
	}
	t.Render()

	return nil
}
