package commands

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dossier/internal/cli/config"
	"github.com/leapstack-labs/dossier/internal/cli/output"
	"github.com/leapstack-labs/dossier/internal/tui"
)

// errNoTerminal is returned when the terminal UI is started without a terminal.
var errNoTerminal = errors.New("the terminal UI needs an interactive terminal\nHint: Use 'dossier shell', 'dossier list' or the other subcommands instead")

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen terminal UI",
		Long: `Open the full-screen terminal UI.

The table shows every person. Select a row with enter to edit or delete it,
press a to add a person, s to search by exact name and q to quit.
This is what 'dossier' runs when started without a subcommand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunTUI(cmd)
		},
	}
}

// RunTUI starts the terminal UI for cmd.
func RunTUI(cmd *cobra.Command) error {
	if !output.IsTerminal(cmd.OutOrStdout()) {
		return errNoTerminal
	}

	// The UI owns the screen: without a log file, logs are dropped.
	if getConfig().LogFile == "" {
		cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), slog.New(slog.DiscardHandler)))
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctrl, view := cmdCtx.NewController(cmd.Context())

	cmdCtx.Logger.Info("starting terminal UI", "store", cmdCtx.Gateway.Location())
	return tui.Run(cmd.Context(), ctrl, view,
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
}
