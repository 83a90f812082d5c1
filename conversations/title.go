package conversations

import (
	"github.com/spf13/cobra"

	"github.com/councilhq/council/internal/cli"
	"github.com/councilhq/council/store"
)

// newTitleCmd instantiates and returns the conversations title command.
func newTitleCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "title [id] [title]",
		Short: "Rename a conversation",
		Long:  "Rename a conversation",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			err := s.UpdateTitle(cmd.Context(), args[0], args[1])
			cobra.CheckErr(err)
			cli.Info("renamed conversation (%s) to '%s'\n", args[0], args[1])
		},
	}
}
