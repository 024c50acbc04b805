package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldash-labs/sqldash/internal/registry"
	"github.com/sqldash-labs/sqldash/internal/seed"
	"github.com/sqldash-labs/sqldash/internal/testutil"
)

func seededRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := testutil.NewTestRegistry(t)
	require.NoError(t, seed.Run(context.Background(), testutil.NewTestLogger(t), reg))
	return reg
}

func TestGetSchema(t *testing.T) {
	reg := seededRegistry(t)

	snap, err := GetSchema(context.Background(), reg)
	require.NoError(t, err)
	require.Len(t, snap, 2)
	require.Contains(t, snap, "flights")
	require.Contains(t, snap, "transactions")

	// Bookkeeping tables from seeding must not leak into the snapshot.
	require.Len(t, snap["flights"], 1)
	require.Len(t, snap["transactions"], 1)

	flights := snap["flights"]["flights"]
	names := make([]string, 0, len(flights))
	for _, col := range flights {
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{
		"flight_id", "airline", "origin", "destination",
		"departure_date", "arrival_date", "status", "price",
	}, names)

	assert.Equal(t, CategoryNumeric, flights[0].Category)
	assert.Equal(t, "INTEGER", flights[0].DeclaredType)
	assert.Equal(t, CategoryText, flights[1].Category)
	assert.Equal(t, CategoryNumeric, flights[7].Category)
	assert.Equal(t, "REAL", flights[7].DeclaredType)
}

func TestSnapshotDisplay(t *testing.T) {
	reg := seededRegistry(t)

	snap, err := GetSchema(context.Background(), reg)
	require.NoError(t, err)

	display := snap.Display()
	assert.Equal(t, []string{
		"flight_id [numeric]",
		"airline [text]",
		"origin [text]",
		"destination [text]",
		"departure_date [text]",
		"arrival_date [text]",
		"status [text]",
		"price [numeric]",
	}, display["flights"]["flights"])

	assert.Equal(t, "transaction_id [numeric]", display["transactions"]["transactions"][0])
	assert.Equal(t, "amount [numeric]", display["transactions"]["transactions"][4])
}

func TestInspectDatabaseOddTypes(t *testing.T) {
	reg := seededRegistry(t)

	db, err := reg.Open("flights")
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE widgets (id INTEGER, payload FANCYTYPE, created DATETIME, body)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	schema, err := InspectDatabase(context.Background(), reg, "flights")
	require.NoError(t, err)
	require.Contains(t, schema, "widgets")

	widgets := schema["widgets"]
	require.Len(t, widgets, 4)
	assert.Equal(t, CategoryNumeric, widgets[0].Category)
	assert.Equal(t, CategoryUnknown, widgets[1].Category)
	assert.Equal(t, CategoryTemporal, widgets[2].Category)
	assert.Equal(t, "", widgets[3].DeclaredType)
	assert.Equal(t, CategoryUnknown, widgets[3].Category)
}

func TestInspectDatabaseUnknown(t *testing.T) {
	reg := testutil.NewTestRegistry(t)

	_, err := InspectDatabase(context.Background(), reg, "payroll")
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrUnknownDatabase)
}

func TestGetSchemaConnectionFailure(t *testing.T) {
	dir := t.TempDir()
	reg, err := registry.New([]registry.Entry{
		{Name: "broken", Driver: registry.DriverSQLite, DSN: filepath.Join(dir, "missing", "broken.db")},
	})
	require.NoError(t, err)

	_, err = GetSchema(context.Background(), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `inspect database "broken"`)
}
