// Package seed provisions the bundled demo datasets into their registered
// databases. Each dataset ships as an embedded goose migration (the table
// DDL) plus a YAML file with the rows to insert. Seeding drops and
// recreates the table, so running it repeatedly always converges on the
// same contents.
package seed

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/pressly/goose/v3"
	"gopkg.in/yaml.v3"

	"github.com/sqldash-labs/sqldash/internal/registry"
)

//go:embed migrations
var migrationsFS embed.FS

//go:embed datasets
var datasetsFS embed.FS

// datasetNames lists the bundled datasets in seeding order. Each name is
// both the logical database name and the table it contains.
var datasetNames = []string{"flights", "transactions"}

// Names returns the names of the bundled datasets.
func Names() []string {
	out := make([]string, len(datasetNames))
	copy(out, datasetNames)
	return out
}

type dataset struct {
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`
	Rows    [][]any  `yaml:"rows"`
}

// Run seeds every bundled dataset whose name is registered. Datasets with
// no matching registry entry are skipped, as are entries that do not use
// the sqlite driver, since the bundled DDL targets sqlite.
func Run(ctx context.Context, logger *slog.Logger, reg *registry.Registry) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	for _, name := range datasetNames {
		entry, err := reg.Lookup(name)
		if errors.Is(err, registry.ErrUnknownDatabase) {
			logger.Warn("dataset has no registered database, skipping", "dataset", name)
			continue
		}
		if err != nil {
			return err
		}
		if entry.Driver != registry.DriverSQLite {
			logger.Warn("dataset database is not sqlite, skipping", "dataset", name, "driver", entry.Driver)
			continue
		}
		if err := seedDatabase(ctx, logger, reg, name); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}

func seedDatabase(ctx context.Context, logger *slog.Logger, reg *registry.Registry, name string) error {
	ds, err := loadDataset(name)
	if err != nil {
		return err
	}

	db, err := reg.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// Reset then re-apply so a second run rebuilds the table instead of
	// appending duplicate rows.
	dir := path.Join("migrations", name)
	if err := goose.ResetContext(ctx, db, dir); err != nil {
		return fmt.Errorf("reset migrations: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if err := insertRows(ctx, db, ds); err != nil {
		return err
	}

	logger.Info("seeded database", "database", name, "table", ds.Table, "rows", len(ds.Rows))
	return nil
}

func loadDataset(name string) (*dataset, error) {
	raw, err := datasetsFS.ReadFile(path.Join("datasets", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if ds.Table == "" || len(ds.Columns) == 0 {
		return nil, fmt.Errorf("dataset %s: missing table or columns", name)
	}
	for i, row := range ds.Rows {
		if len(row) != len(ds.Columns) {
			return nil, fmt.Errorf("dataset %s: row %d has %d values, want %d", name, i+1, len(row), len(ds.Columns))
		}
	}
	return &ds, nil
}

func insertRows(ctx context.Context, db *sql.DB, ds *dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ds.Columns)), ", ")
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		ds.Table, strings.Join(ds.Columns, ", "), placeholders,
	)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range ds.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}
