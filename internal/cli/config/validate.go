package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/dossier/internal/cli/output"
	"github.com/leapstack-labs/dossier/internal/store"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	d, err := store.LookupDialect(c.Store.Driver)
	if err != nil {
		return err
	}

	if d.FileBacked && c.Store.Path == "" {
		return errors.New("store.path is required for the sqlite driver")
	}
	if !d.FileBacked && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for the %s driver\nHint: Set DOSSIER_STORE__DSN or store.dsn in %s", d.Name, DefaultConfigFile)
	}
	if c.Store.BusyTimeout < 0 {
		return fmt.Errorf("store.busy_timeout must not be negative, got %s", c.Store.BusyTimeout)
	}

	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	return nil
}
