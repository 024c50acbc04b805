// Package registry defines the fixed set of databases the backend serves.
//
// A Registry is built once at startup from configuration and never mutated
// afterwards. Both schema inspection and query execution resolve logical
// database names through it.
package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	// Database drivers for the supported engines.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"
	_ "modernc.org/sqlite"
)

// Supported driver names for registry entries.
const (
	DriverSQLite   = "sqlite"
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ErrUnknownDatabase is returned when a logical database name is not
// registered.
var ErrUnknownDatabase = errors.New("unknown database")

// Entry describes one registered database.
type Entry struct {
	Name   string
	Driver string
	DSN    string
}

// Registry is an immutable mapping from logical database names to entries.
type Registry struct {
	entries map[string]Entry
}

// New builds a registry from the given entries. Entries must have unique
// names, a supported driver, and a non-empty DSN.
func New(entries []Entry) (*Registry, error) {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("database entry with empty name")
		}
		if _, ok := m[e.Name]; ok {
			return nil, fmt.Errorf("duplicate database name %q", e.Name)
		}
		if _, err := sqlDriverName(e.Driver); err != nil {
			return nil, fmt.Errorf("database %q: %w", e.Name, err)
		}
		if e.DSN == "" {
			return nil, fmt.Errorf("database %q: empty dsn", e.Name)
		}
		m[e.Name] = e
	}
	return &Registry{entries: m}, nil
}

// Lookup resolves a logical database name.
func (r *Registry) Lookup(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownDatabase, name)
	}
	return e, nil
}

// Names returns the registered database names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered databases.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Open opens a read-write connection handle for the named database.
// The caller owns the handle and must close it.
func (r *Registry) Open(name string) (*sql.DB, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	driver, err := sqlDriverName(e.Driver)
	if err != nil {
		return nil, err
	}
	return sql.Open(driver, e.DSN)
}

// OpenReadOnly opens a connection handle that cannot modify the named
// database, for engines that support it. The caller owns the handle and
// must close it.
func (r *Registry) OpenReadOnly(name string) (*sql.DB, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	driver, err := sqlDriverName(e.Driver)
	if err != nil {
		return nil, err
	}
	return sql.Open(driver, readOnlyDSN(e.Driver, e.DSN))
}

// sqlDriverName maps a registry driver to the name registered with
// database/sql.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite", nil
	case DriverDuckDB:
		return "duckdb", nil
	case DriverPostgres:
		return "pgx", nil
	case DriverMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

// readOnlyDSN appends the engine's read-only option to a DSN. MySQL has no
// connection-level read-only switch, so its DSN passes through unchanged.
func readOnlyDSN(driver, dsn string) string {
	switch driver {
	case DriverSQLite:
		// SQLite only honors mode=ro on URI filenames.
		if !strings.HasPrefix(dsn, "file:") && !strings.HasPrefix(dsn, ":memory:") {
			dsn = "file:" + dsn
		}
		return appendDSNParam(dsn, "mode=ro")
	case DriverDuckDB:
		return appendDSNParam(dsn, "access_mode=read_only")
	case DriverPostgres:
		// URL DSNs take runtime parameters in the query string,
		// keyword/value DSNs take them space-separated.
		if strings.Contains(dsn, "://") {
			return appendDSNParam(dsn, "default_transaction_read_only=on")
		}
		return dsn + " default_transaction_read_only=on"
	default:
		return dsn
	}
}

func appendDSNParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}
