// Package store provides the persistence gateway for the dossier record store.
//
// The gateway hands out one connection per logical operation. Nothing is
// pooled or cached between operations: WithConn opens the store, runs the
// callback and closes the connection on every exit path.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// database/sql drivers for the registered dialects.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DefaultBusyTimeout is how long SQLite waits on a locked database file.
const DefaultBusyTimeout = 5 * time.Second

// Config identifies the store location.
type Config struct {
	Driver      string
	Path        string
	DSN         string
	BusyTimeout time.Duration
}

// Gateway opens connections to the record store.
type Gateway struct {
	cfg     Config
	dialect Dialect
	dsn     string
	logger  *slog.Logger
}

// NewGateway validates cfg and returns a gateway for it.
// The logger parameter may be nil.
func NewGateway(cfg Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}

	d, err := LookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := d.DSN(cfg)
	if err != nil {
		return nil, err
	}

	return &Gateway{
		cfg:     cfg,
		dialect: d,
		dsn:     dsn,
		logger:  logger.With("component", "store", "driver", d.Name),
	}, nil
}

// Dialect returns the dialect the gateway was configured with.
func (g *Gateway) Dialect() Dialect {
	return g.dialect
}

// Location returns a human-readable store location.
func (g *Gateway) Location() string {
	if g.dialect.FileBacked {
		return g.cfg.Path
	}
	return g.dialect.Name
}

// Open returns a live connection to the store, creating the backing file
// if the dialect is file based and the file is absent.
// The caller owns the connection and must close it; prefer WithConn.
func (g *Gateway) Open(ctx context.Context) (*sql.DB, error) {
	if g.dialect.FileBacked {
		dir := filepath.Dir(g.cfg.Path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("%w: failed to create store directory: %w", ErrStorageUnavailable, err)
			}
		}
	}

	db, err := sql.Open(g.dialect.SQLDriver, g.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s store: %w", ErrStorageUnavailable, g.dialect.Name, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping %s store at %s: %w", ErrStorageUnavailable, g.dialect.Name, g.Location(), err)
	}

	return db, nil
}

// WithConn opens a connection, passes it to fn and closes it before
// returning, whether fn succeeds, fails or panics.
func (g *Gateway) WithConn(ctx context.Context, fn func(db *sql.DB) error) (err error) {
	db, err := g.Open(ctx)
	if err != nil {
		g.logger.Debug("store open failed", "location", g.Location(), "error", err)
		return err
	}

	op := uuid.NewString()
	start := time.Now()
	g.logger.Debug("store connection opened", "op", op, "location", g.Location())

	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close store connection: %w", cerr)
		}
		g.logger.Debug("store connection closed", "op", op, "duration", time.Since(start))
	}()

	return fn(db)
}
