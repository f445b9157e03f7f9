package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// gooseLogger routes goose output to slog so the terminal UI stays clean.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *Gateway) configureGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger: g.logger})
	if err := goose.SetDialect(g.dialect.Goose); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// Migrate runs all pending migrations, creating the persons table.
func (g *Gateway) Migrate(ctx context.Context) error {
	return g.WithConn(ctx, func(db *sql.DB) error {
		if err := g.configureGoose(); err != nil {
			return err
		}
		if err := goose.UpContext(ctx, db, g.dialect.Migrations); err != nil {
			return fmt.Errorf("%w: failed to run migrations: %w", ErrWriteFailed, err)
		}
		return nil
	})
}

// MigrationVersion returns the current migration version of the store.
func (g *Gateway) MigrationVersion(ctx context.Context) (int64, error) {
	var version int64
	err := g.WithConn(ctx, func(db *sql.DB) error {
		if err := g.configureGoose(); err != nil {
			return err
		}
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("%w: failed to read migration version: %w", ErrReadFailed, err)
		}
		version = v
		return nil
	})
	return version, err
}
