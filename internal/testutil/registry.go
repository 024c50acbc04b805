package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqldash-labs/sqldash/internal/registry"
)

// NewTestRegistry returns a registry with the standard databases backed by
// sqlite files in a per-test temp directory. The databases start empty;
// tests that need rows seed them explicitly.
func NewTestRegistry(t testing.TB) *registry.Registry {
	t.Helper()

	dir := t.TempDir()
	entries := []registry.Entry{
		{Name: "flights", Driver: registry.DriverSQLite, DSN: filepath.Join(dir, "flights.db")},
		{Name: "transactions", Driver: registry.DriverSQLite, DSN: filepath.Join(dir, "transactions.db")},
	}

	// A zero-length file is a valid empty sqlite database, so read-only
	// opens work before any seeding.
	for _, e := range entries {
		require.NoError(t, os.WriteFile(e.DSN, nil, 0600))
	}

	reg, err := registry.New(entries)
	require.NoError(t, err)
	return reg
}
