package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every person in the store",
		Long: `List every stored person in store order.

Output adapts to environment:
  - Terminal: Table
  - Piped/Scripted: Markdown table
  - --output json|csv for scripting`,
		Example: `  # Show all records
  dossier list

  # Export as CSV
  dossier list -o csv > persons.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			people, err := cmdCtx.Repo.ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list persons: %w", err)
			}
			return cmdCtx.Renderer.Persons(people)
		},
	}
}
