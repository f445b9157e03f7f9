// Package config provides configuration management for the dossier CLI.
//
// Values are layered with koanf: built-in defaults, then dossier.yaml, then
// DOSSIER_ environment variables, then explicitly set command-line flags.
package config

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/dossier/internal/store"
)

// Config holds all CLI configuration options.
type Config struct {
	Store        StoreConfig `koanf:"store"`
	LogLevel     slog.Level  `koanf:"log_level"`
	LogFile      string      `koanf:"log_file"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`

	// ProjectRoot is the directory holding dossier.yaml, or the working
	// directory when there is none. Relative store paths resolve against it.
	ProjectRoot string `koanf:"-"`
}

// StoreConfig selects and locates the record store.
type StoreConfig struct {
	Driver      string        `koanf:"driver"`
	Path        string        `koanf:"path"`
	DSN         string        `koanf:"dsn"`
	BusyTimeout time.Duration `koanf:"busy_timeout"`
	AutoMigrate bool          `koanf:"auto_migrate"`
}

// Gateway returns the persistence gateway settings.
func (s StoreConfig) Gateway() store.Config {
	return store.Config{
		Driver:      s.Driver,
		Path:        s.Path,
		DSN:         s.DSN,
		BusyTimeout: s.BusyTimeout,
	}
}

// Default configuration values.
const (
	DefaultConfigFile  = "dossier.yaml"
	DefaultDriver      = store.DriverSQLite
	DefaultStorePath   = "database.db"
	DefaultBusyTimeout = store.DefaultBusyTimeout
	DefaultLogLevel    = "info"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// configFileNames are searched in order.
var configFileNames = []string{"dossier.yaml", "dossier.yml"}
