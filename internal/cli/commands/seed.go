package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqldash-labs/sqldash/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the bundled datasets",
		Long: `Load the bundled flight and transaction datasets into their
registered databases.

Seeding drops and recreates the dataset tables, so every run produces
the same rows with ids starting from 1. Datasets whose database is not
registered, or is not backed by sqlite, are skipped.`,
		Example: `  # Load the bundled datasets
  sqldash seed

  # Seed into a different data directory
  sqldash seed --data-dir ./tmp/data`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd)
		},
	}
}

func runSeed(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := seed.Run(ctx, cmdCtx.Logger, cmdCtx.Registry); err != nil {
		return err
	}

	for _, name := range seed.Names() {
		n, err := countDatasetRows(ctx, cmdCtx, name)
		if err != nil {
			// Skipped datasets have no table to count.
			continue
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", name, n)
	}

	return nil
}

func countDatasetRows(ctx context.Context, cmdCtx *CommandContext, name string) (int, error) {
	db, err := cmdCtx.Registry.OpenReadOnly(name)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	var n int
	// Dataset tables are named after their database.
	if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", name)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
