package sqlexec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/sqldash-labs/sqldash/internal/registry"
	"github.com/sqldash-labs/sqldash/internal/seed"
	"github.com/sqldash-labs/sqldash/internal/testutil"
)

func newSeededExecutor(t *testing.T) *Executor {
	t.Helper()
	reg := testutil.NewTestRegistry(t)
	require.NoError(t, seed.Run(context.Background(), testutil.NewTestLogger(t), reg))
	return New(reg, testutil.NewTestLogger(t))
}

func TestExecuteSelect(t *testing.T) {
	ex := newSeededExecutor(t)

	res := ex.Execute(context.Background(), "flights", "SELECT airline, price FROM flights ORDER BY flight_id LIMIT 2")
	require.True(t, res.Success)
	require.Empty(t, res.Error)
	assert.Equal(t, []string{"airline", "price"}, res.Columns)
	require.Len(t, res.Rows, 2)

	assert.Equal(t, Cell{Kind: KindText, Text: "Air Blue"}, res.Rows[0][0])
	assert.Equal(t, Cell{Kind: KindFloat, Float: 150}, res.Rows[0][1])
	assert.Equal(t, Cell{Kind: KindText, Text: "Air Green"}, res.Rows[1][0])
}

func TestExecuteCountEnvelope(t *testing.T) {
	ex := newSeededExecutor(t)

	res := ex.Execute(context.Background(), "flights", "SELECT COUNT(*) AS n FROM flights")
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"columns":["n"],"rows":[[10]],"error":null}`, string(b))
}

func TestExecuteNullValue(t *testing.T) {
	ex := newSeededExecutor(t)

	res := ex.Execute(context.Background(), "flights", "SELECT NULL AS x")
	require.True(t, res.Success)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, KindNull, res.Rows[0][0].Kind)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"columns":["x"],"rows":[[null]],"error":null}`, string(b))
}

func TestExecuteStatementError(t *testing.T) {
	ex := newSeededExecutor(t)

	res := ex.Execute(context.Background(), "flights", "SELEC * FROM flights")
	require.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Rows)

	b, err := json.Marshal(res)
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal(b, &env))
	assert.Equal(t, false, env["success"])
	assert.Equal(t, []any{}, env["columns"])
	assert.Equal(t, []any{}, env["rows"])
	assert.NotEmpty(t, env["error"])
}

func TestExecuteUnknownDatabase(t *testing.T) {
	ex := newSeededExecutor(t)

	res := ex.Execute(context.Background(), "payroll", "SELECT 1")
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown database")
	assert.Contains(t, res.Error, "payroll")
}

func TestExecuteNonQueryStatement(t *testing.T) {
	ex := newSeededExecutor(t)
	ctx := context.Background()

	res := ex.Execute(ctx, "flights",
		`INSERT INTO flights (airline, origin, destination, departure_date, arrival_date, status, price)
		 VALUES ('Air White', 'Recife', 'Salvador', '2025-12-01', '2025-12-01', 'On Time', 175.0)`)
	require.True(t, res.Success, "error: %s", res.Error)
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Rows)

	count := ex.Execute(ctx, "flights", "SELECT COUNT(*) AS n FROM flights")
	require.True(t, count.Success)
	assert.Equal(t, Cell{Kind: KindInt, Int: 11}, count.Rows[0][0])
}

func TestResultFailureEnvelope(t *testing.T) {
	b, err := json.Marshal(Failure(errors.New("boom")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"columns":[],"rows":[],"error":"boom"}`, string(b))
}

// A burst of mixed successful and failing calls must not leave handles
// behind that would block later work.
func TestExecuteConcurrent(t *testing.T) {
	ex := newSeededExecutor(t)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 100; i++ {
		i := i
		g.Go(func() error {
			switch i % 4 {
			case 0:
				res := ex.Execute(ctx, "flights", "SELECT COUNT(*) AS n FROM flights")
				if !res.Success {
					return fmt.Errorf("flights count failed: %s", res.Error)
				}
				if res.Rows[0][0].Int != 10 {
					return fmt.Errorf("flights count = %d, want 10", res.Rows[0][0].Int)
				}
			case 1:
				res := ex.Execute(ctx, "transactions", "SELECT merchant FROM transactions ORDER BY transaction_id LIMIT 1")
				if !res.Success {
					return fmt.Errorf("transactions select failed: %s", res.Error)
				}
			case 2:
				res := ex.Execute(ctx, "flights", "SELECT * FROM no_such_table")
				if res.Success {
					return errors.New("select from missing table unexpectedly succeeded")
				}
			default:
				res := ex.Execute(ctx, "nowhere", "SELECT 1")
				if res.Success {
					return errors.New("unknown database unexpectedly succeeded")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// A write still goes through afterwards, so nothing is holding locks.
	res := ex.Execute(ctx, "flights", "UPDATE flights SET status = 'Delayed' WHERE flight_id = 1")
	require.True(t, res.Success, "error: %s", res.Error)

	check := ex.Execute(ctx, "flights", "SELECT status FROM flights WHERE flight_id = 1")
	require.True(t, check.Success)
	assert.Equal(t, "Delayed", check.Rows[0][0].Text)
}

func TestExecuteUnknownDatabaseIsRegistryError(t *testing.T) {
	reg := testutil.NewTestRegistry(t)
	_, err := reg.Lookup("payroll")
	require.ErrorIs(t, err, registry.ErrUnknownDatabase)

	ex := New(reg, testutil.NewTestLogger(t))
	res := ex.Execute(context.Background(), "payroll", "SELECT 1")
	assert.Equal(t, Failure(err).Error, res.Error)
}
