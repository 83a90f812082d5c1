package conversations

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/councilhq/council/internal/cli"
	"github.com/councilhq/council/store"
)

// newCreateCmd instantiates and returns the conversations new command.
func newCreateCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "new [id]",
		Short: "Create a new conversation",
		Long:  "Create a new conversation",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				id = uuid.New().String()[:8]
			}

			conversation, err := s.Create(cmd.Context(), id)
			cobra.CheckErr(err)
			cli.Info("created conversation (%s) - %s\n", conversation.ID, conversation.CreatedAt)
		},
	}
}
