// Package commands implements the sqldash subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sqldash-labs/sqldash/internal/config"
	"github.com/sqldash-labs/sqldash/internal/registry"
	"github.com/sqldash-labs/sqldash/internal/seed"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Registry *registry.Registry
}

// NewCommandContext resolves config and logger from the command context and
// builds the database registry.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	logger := config.LoggerFromContext(cmd.Context())

	reg, err := BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Registry: reg,
	}, nil
}

// BuildRegistry assembles the database registry from configuration. When the
// config lists no databases, the bundled datasets are registered as sqlite
// files under the data directory.
func BuildRegistry(cfg *config.Config) (*registry.Registry, error) {
	entries := make([]registry.Entry, 0, len(cfg.Databases))
	for _, db := range cfg.Databases {
		entries = append(entries, registry.Entry{
			Name:   db.Name,
			Driver: db.Driver,
			DSN:    db.DSN,
		})
	}

	if len(entries) == 0 {
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		for _, name := range seed.Names() {
			entries = append(entries, registry.Entry{
				Name:   name,
				Driver: registry.DriverSQLite,
				DSN:    filepath.Join(cfg.DataDir, name+".db"),
			})
		}
	}

	return registry.New(entries)
}
