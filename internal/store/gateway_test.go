package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dossier/internal/testutil"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	gw, err := NewGateway(Config{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "dossier.db"),
	}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return gw
}

func TestNewGateway(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "sqlite default driver",
			cfg:  Config{Path: "database.db"},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Driver: "oracle", Path: "database.db"},
			wantErr: `unknown store driver "oracle"`,
		},
		{
			name:    "empty sqlite path",
			cfg:     Config{Driver: DriverSQLite},
			wantErr: "path is empty",
		},
		{
			name:    "in-memory sqlite rejected",
			cfg:     Config{Driver: DriverSQLite, Path: ":memory:"},
			wantErr: "cannot be in-memory",
		},
		{
			name:    "postgres without dsn",
			cfg:     Config{Driver: DriverPostgres},
			wantErr: "requires a dsn",
		},
		{
			name: "postgres with dsn",
			cfg:  Config{Driver: DriverPostgres, DSN: "postgres://localhost/dossier"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, err := NewGateway(tt.cfg, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, gw)
		})
	}
}

func TestUnknownDriverErrorListsAvailable(t *testing.T) {
	_, err := LookupDialect("mssql")
	var unknown *UnknownDriverError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{DriverPostgres, DriverSQLite}, unknown.Available)
}

func TestGateway_OpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "dossier.db")
	gw, err := NewGateway(Config{Path: path}, nil)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "file should not exist before open")

	db, err := gw.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err, "open should create the store file")
	assert.Equal(t, path, gw.Location())
}

func TestGateway_OpenUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0600))

	gw, err := NewGateway(Config{Path: filepath.Join(blocker, "dossier.db")}, nil)
	require.NoError(t, err)

	_, err = gw.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	called := false
	err = gw.WithConn(context.Background(), func(*sql.DB) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.False(t, called, "callback must not run when the store is unavailable")
}

func TestGateway_WithConnReleases(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		fn      func(db *sql.DB) error
		panics  bool
		wantErr error
	}{
		{
			name: "success",
			fn:   func(*sql.DB) error { return nil },
		},
		{
			name:    "callback error",
			fn:      func(*sql.DB) error { return errBoom },
			wantErr: errBoom,
		},
		{
			name:   "callback panic",
			fn:     func(*sql.DB) error { panic("boom") },
			panics: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *sql.DB
			run := func() error {
				return gw.WithConn(ctx, func(db *sql.DB) error {
					captured = db
					return tt.fn(db)
				})
			}

			if tt.panics {
				assert.Panics(t, func() { _ = run() })
			} else {
				err := run()
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.NoError(t, err)
				}
			}

			require.NotNil(t, captured)
			assert.Error(t, captured.PingContext(ctx), "connection should be closed after WithConn returns")
		})
	}
}

func TestGateway_Migrate(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()

	require.NoError(t, gw.Migrate(ctx))
	// Running again is a no-op.
	require.NoError(t, gw.Migrate(ctx))

	version, err := gw.MigrationVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	err = gw.WithConn(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `INSERT INTO persons (name, rank, mobile) VALUES (?, ?, ?)`, "Alice", "Soldier", "111")
		return err
	})
	assert.NoError(t, err, "persons table should exist after migration")
}

func TestDialects(t *testing.T) {
	sqlite, err := LookupDialect(DriverSQLite)
	require.NoError(t, err)
	assert.True(t, sqlite.FileBacked)
	assert.False(t, sqlite.InsertReturning)

	dsn, err := sqlite.DSN(Config{Path: "people.db"})
	require.NoError(t, err)
	assert.Equal(t, "people.db?_pragma=busy_timeout(5000)", dsn)

	pg, err := LookupDialect(DriverPostgres)
	require.NoError(t, err)
	assert.True(t, pg.InsertReturning)
	assert.Equal(t, "pgx", pg.SQLDriver)
}
