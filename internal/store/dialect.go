package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Built-in driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Dialect describes how the gateway talks to one kind of store.
type Dialect struct {
	// Name is the driver key used in configuration.
	Name string
	// SQLDriver is the database/sql driver name.
	SQLDriver string
	// Goose is the goose dialect used for migrations.
	Goose string
	// Migrations is the directory under the embedded migrations FS.
	Migrations string
	// Placeholder is the bind-parameter style for statement builders.
	Placeholder sq.PlaceholderFormat
	// InsertReturning is true when the driver cannot report LastInsertId
	// and inserts must use RETURNING instead.
	InsertReturning bool
	// FileBacked means the location is a local file the gateway may create.
	FileBacked bool

	dsn func(Config) (string, error)
}

// DSN builds the data source name for cfg.
func (d Dialect) DSN(cfg Config) (string, error) {
	if d.dsn == nil {
		return "", fmt.Errorf("dialect %s has no DSN builder", d.Name)
	}
	return d.dsn(cfg)
}

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]Dialect)
)

// RegisterDialect adds a dialect to the registry, replacing any with the same name.
func RegisterDialect(d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[d.Name] = d
}

// LookupDialect retrieves a registered dialect by driver name.
func LookupDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	d, ok := dialects[name]
	dialectsMu.RUnlock()
	if !ok {
		return Dialect{}, &UnknownDriverError{Driver: name, Available: Drivers()}
	}
	return d, nil
}

// Drivers returns all registered driver names (sorted).
func Drivers() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterDialect(Dialect{
		Name:        DriverSQLite,
		SQLDriver:   "sqlite",
		Goose:       "sqlite3",
		Migrations:  "migrations/sqlite",
		Placeholder: sq.Question,
		FileBacked:  true,
		dsn:         sqliteDSN,
	})
	RegisterDialect(Dialect{
		Name:            DriverPostgres,
		SQLDriver:       "pgx",
		Goose:           "postgres",
		Migrations:      "migrations/postgres",
		Placeholder:     sq.Dollar,
		InsertReturning: true,
		dsn:             postgresDSN,
	})
}

func sqliteDSN(cfg Config) (string, error) {
	if cfg.Path == "" {
		return "", fmt.Errorf("sqlite store path is empty")
	}
	if cfg.Path == ":memory:" {
		// Every operation opens a fresh connection, so an in-memory
		// database would be empty on each call.
		return "", fmt.Errorf("sqlite store cannot be in-memory: connections are not reused between operations")
	}
	timeout := cfg.BusyTimeout
	if timeout <= 0 {
		timeout = DefaultBusyTimeout
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", cfg.Path, timeout/time.Millisecond), nil
}

func postgresDSN(cfg Config) (string, error) {
	if cfg.DSN == "" {
		return "", fmt.Errorf("postgres store requires a dsn")
	}
	return cfg.DSN, nil
}
