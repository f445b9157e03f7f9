package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dossier/internal/cli/output"
	"github.com/leapstack-labs/dossier/internal/person"
)

// NewAddCommand creates the add command.
func NewAddCommand() *cobra.Command {
	var f person.Form

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person",
		Long: `Add a person to the store. The rank must be one of:
  ` + strings.Join(person.Ranks, ", "),
		Example: `  dossier add --name Bob --rank Sergeant --mobile 555-1234`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := person.ValidateForm(f); err != nil {
				return err
			}

			id, err := cmdCtx.Repo.Insert(cmd.Context(), f.Name, f.Rank, f.Mobile)
			if err != nil {
				return fmt.Errorf("failed to add person: %w", err)
			}

			p := person.Person{ID: id, Name: f.Name, Rank: f.Rank, Mobile: f.Mobile}
			return renderMutation(cmdCtx.Renderer, "added", p, fmt.Sprintf("Added %s with id %d", p.Name, p.ID))
		},
	}

	cmd.Flags().StringVar(&f.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&f.Rank, "rank", person.Ranks[0], "Rank")
	cmd.Flags().StringVar(&f.Mobile, "mobile", "", "Mobile number")
	_ = cmd.RegisterFlagCompletionFunc("rank", completeRanks)

	return cmd
}

func completeRanks(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return person.Ranks, cobra.ShellCompDirectiveNoFileComp
}

// renderMutation reports a write: a JSON document in json mode, a success
// line otherwise.
func renderMutation(r *output.Renderer, action string, p person.Person, msg string) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.PersonOutput{Action: action, Person: p})
	}
	r.Success(msg)
	return nil
}
