package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr string
	}{
		{
			name: "valid entries",
			entries: []Entry{
				{Name: "flights", Driver: DriverSQLite, DSN: "data/flights.db"},
				{Name: "warehouse", Driver: DriverDuckDB, DSN: "data/warehouse.db"},
			},
		},
		{
			name:    "empty name",
			entries: []Entry{{Name: "", Driver: DriverSQLite, DSN: "a.db"}},
			wantErr: "empty name",
		},
		{
			name: "duplicate name",
			entries: []Entry{
				{Name: "flights", Driver: DriverSQLite, DSN: "a.db"},
				{Name: "flights", Driver: DriverSQLite, DSN: "b.db"},
			},
			wantErr: "duplicate database name",
		},
		{
			name:    "unsupported driver",
			entries: []Entry{{Name: "flights", Driver: "oracle", DSN: "a.db"}},
			wantErr: `unsupported driver "oracle"`,
		},
		{
			name:    "empty dsn",
			entries: []Entry{{Name: "flights", Driver: DriverSQLite, DSN: ""}},
			wantErr: "empty dsn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := New(tt.entries)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.entries), reg.Len())
		})
	}
}

func TestLookup(t *testing.T) {
	reg, err := New([]Entry{
		{Name: "flights", Driver: DriverSQLite, DSN: "data/flights.db"},
	})
	require.NoError(t, err)

	t.Run("known name", func(t *testing.T) {
		e, err := reg.Lookup("flights")
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, e.Driver)
		assert.Equal(t, "data/flights.db", e.DSN)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := reg.Lookup("payroll")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownDatabase)
		assert.Contains(t, err.Error(), "payroll")
	})
}

func TestNamesSorted(t *testing.T) {
	reg, err := New([]Entry{
		{Name: "transactions", Driver: DriverSQLite, DSN: "b.db"},
		{Name: "flights", Driver: DriverSQLite, DSN: "a.db"},
		{Name: "analytics", Driver: DriverDuckDB, DSN: "c.db"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"analytics", "flights", "transactions"}, reg.Names())
}

func TestReadOnlyDSN(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		dsn    string
		want   string
	}{
		{"sqlite plain path", DriverSQLite, "data/flights.db", "file:data/flights.db?mode=ro"},
		{"sqlite uri", DriverSQLite, "file:data/flights.db?_pragma=busy_timeout(5000)", "file:data/flights.db?_pragma=busy_timeout(5000)&mode=ro"},
		{"duckdb", DriverDuckDB, "data/warehouse.db", "data/warehouse.db?access_mode=read_only"},
		{"postgres url", DriverPostgres, "postgres://localhost:5432/app", "postgres://localhost:5432/app?default_transaction_read_only=on"},
		{"postgres keyword form", DriverPostgres, "host=localhost dbname=app", "host=localhost dbname=app default_transaction_read_only=on"},
		{"mysql unchanged", DriverMySQL, "user:pass@tcp(localhost:3306)/app", "user:pass@tcp(localhost:3306)/app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readOnlyDSN(tt.driver, tt.dsn))
		})
	}
}

func TestSQLDriverName(t *testing.T) {
	for driver, want := range map[string]string{
		DriverSQLite:   "sqlite",
		DriverDuckDB:   "duckdb",
		DriverPostgres: "pgx",
		DriverMySQL:    "mysql",
	} {
		got, err := sqlDriverName(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := sqlDriverName("mssql")
	assert.Error(t, err)
}
