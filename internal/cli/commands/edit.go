package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dossier/internal/person"
)

// NewEditCommand creates the edit command.
func NewEditCommand() *cobra.Command {
	var f person.Form

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a person",
		Long: `Update the person with the given id. Fields without a flag keep their
current value. The id never changes.`,
		Example: `  # Promote person 3
  dossier edit 3 --rank "Senior Sergeant"`,
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

			current, err := findPerson(cmd.Context(), cmdCtx.Repo, id)
			if err != nil {
				return err
			}
			next := person.FormOf(current)
			flags := cmd.Flags()
			if flags.Changed("name") {
				next.Name = f.Name
			}
			if flags.Changed("rank") {
				next.Rank = f.Rank
			}
			if flags.Changed("mobile") {
				next.Mobile = f.Mobile
			}
			if err := person.ValidateForm(next); err != nil {
				return err
			}

			if err := cmdCtx.Repo.Update(cmd.Context(), id, next.Name, next.Rank, next.Mobile); err != nil {
				return fmt.Errorf("failed to update person %d: %w", id, err)
			}

			p := person.Person{ID: id, Name: next.Name, Rank: next.Rank, Mobile: next.Mobile}
			return renderMutation(cmdCtx.Renderer, "updated", p, fmt.Sprintf("Updated person %d", id))
		},
	}

	cmd.Flags().StringVar(&f.Name, "name", "", "New full name")
	cmd.Flags().StringVar(&f.Rank, "rank", "", "New rank")
	cmd.Flags().StringVar(&f.Mobile, "mobile", "", "New mobile number")
	_ = cmd.RegisterFlagCompletionFunc("rank", completeRanks)

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", s)
	}
	return id, nil
}
