package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dossier/internal/cli/config"
	"github.com/leapstack-labs/dossier/internal/cli/output"
	"github.com/leapstack-labs/dossier/internal/controller"
	"github.com/leapstack-labs/dossier/internal/person"
	"github.com/leapstack-labs/dossier/internal/store"
	"github.com/leapstack-labs/dossier/internal/viewmodel"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Gateway  *store.Gateway
	Repo     *person.Repository
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a store gateway, the
// person repository and a renderer. The schema is migrated first unless
// store.auto_migrate is off.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	gw, err := store.NewGateway(cmdCtx.Cfg.Store.Gateway(), cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	if cmdCtx.Cfg.Store.AutoMigrate {
		if err := gw.Migrate(cmd.Context()); err != nil {
			return nil, fmt.Errorf("failed to prepare store at %s: %w", gw.Location(), err)
		}
	}

	cmdCtx.Gateway = gw
	cmdCtx.Repo = person.NewRepository(gw, cmdCtx.Logger)
	return cmdCtx, nil
}

// NewCommandContextWithoutStore creates a CommandContext without store access.
// Useful for commands that never touch the records.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		mode = output.ModeAuto
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// NewController wires a view model and controller over the repository and
// performs the initial load. A load failure is left as a pending notice.
func (c *CommandContext) NewController(ctx context.Context) (*controller.Controller, *viewmodel.Table) {
	view := viewmodel.New(c.Repo)
	ctrl := controller.New(c.Repo, view, c.Logger)
	if err := ctrl.Load(ctx); err != nil {
		c.Logger.Warn("initial load failed", "error", err)
	}
	return ctrl, view
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise loads from the
// environment and any dossier.yaml, falling back to built-in defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	if cfg, err := config.LoadConfig("", nil); err == nil {
		return cfg
	}
	return &config.Config{
		Store: config.StoreConfig{
			Driver:      config.DefaultDriver,
			Path:        config.DefaultStorePath,
			BusyTimeout: config.DefaultBusyTimeout,
			AutoMigrate: true,
		},
		LogLevel:     slog.LevelInfo,
		OutputFormat: config.DefaultOutput,
	}
}

// findPerson returns the stored row with id. The repository has no lookup
// by id, so this scans ListAll.
func findPerson(ctx context.Context, repo *person.Repository, id int64) (person.Person, error) {
	people, err := repo.ListAll(ctx)
	if err != nil {
		return person.Person{}, err
	}
	for _, p := range people {
		if p.ID == id {
			return p, nil
		}
	}
	return person.Person{}, fmt.Errorf("no person with id %d", id)
}
