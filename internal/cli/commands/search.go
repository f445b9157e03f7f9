package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Find persons by exact name",
		Long: `Find persons whose name is exactly <name>.

The match is case-sensitive and not trimmed: "bob" does not find "Bob" and
"Bob " does not find "Bob".`,
		Example: `  dossier search Bob
  dossier search "Ann Lee" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			people, err := cmdCtx.Repo.SearchByExactName(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to search persons: %w", err)
			}
			return cmdCtx.Renderer.Persons(people)
		},
	}
}
