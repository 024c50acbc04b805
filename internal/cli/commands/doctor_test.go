package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldash-labs/sqldash/internal/config"
	"github.com/sqldash-labs/sqldash/internal/testutil"
)

func TestDoctorCommand_Healthy(t *testing.T) {
	ctx := newTestContext(t)

	_, err := executeCommand(t, ctx, NewSeedCommand())
	require.NoError(t, err)

	out, err := executeCommand(t, ctx, NewDoctorCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "flights")
	assert.Contains(t, out, "transactions")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "2 of 2 databases healthy")
}

func TestDoctorCommand_JSON(t *testing.T) {
	ctx := newTestContext(t)

	_, err := executeCommand(t, ctx, NewSeedCommand())
	require.NoError(t, err)

	out, err := executeCommand(t, ctx, NewDoctorCommand(), "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"status": "ok"`)
	assert.Contains(t, out, `"healthy": 2`)
}

func TestDoctorCommand_UnreachableDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Databases = []config.DatabaseConfig{
		{Name: "broken", Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "missing", "broken.db")},
	}

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))

	out, err := executeCommand(t, ctx, NewDoctorCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "broken")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "0 of 1 databases healthy")
}
