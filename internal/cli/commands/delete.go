package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dossier/internal/controller"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a person",
		Long: `Delete the person with the given id after confirmation.
Use --yes to skip the question in scripts.`,
		Example: `  dossier delete 3
  dossier delete 3 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			p, err := findPerson(cmd.Context(), cmdCtx.Repo, id)
			if err != nil {
				return err
			}

			if !yes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", controller.DeleteConfirmText)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if !isYes(line) {
					r.Muted("Nothing deleted.")
					return nil
				}
			}

			if err := cmdCtx.Repo.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete person %d: %w", id, err)
			}
			return renderMutation(r, "deleted", p, controller.DeleteSuccessText)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")

	return cmd
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
