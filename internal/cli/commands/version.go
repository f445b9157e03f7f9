package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dossier/internal/controller"
	"github.com/leapstack-labs/dossier/internal/store"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the Dossier version and the store drivers compiled in.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Dossier v%s\n", version)
			_, _ = fmt.Fprintln(w, "Personnel records on SQLite or PostgreSQL")
			_, _ = fmt.Fprintf(w, "Store drivers: %s\n", strings.Join(store.Drivers(), ", "))
		},
	}
}

// NewAboutCommand creates the about command.
func NewAboutCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show what this program is",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), controller.AboutText)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Version %s\n", version)
		},
	}
}
