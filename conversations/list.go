package conversations

import (
	"github.com/spf13/cobra"

	"github.com/councilhq/council/internal/cli"
	"github.com/councilhq/council/store"
)

// newListCmd instantiates and returns the conversations list command.
func newListCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all conversations",
		Long:  "List all conversations",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			// Headers.
			cli.Title("COUNCIL CONVERSATIONS")

			summaries, err := s.List(cmd.Context())
			cobra.CheckErr(err)
			for _, summary := range summaries {
				cli.AIOutput("conversation (%s) - %s\n", summary.ID, summary.CreatedAt)
				cli.UserInput("> %s (%d messages)\n", summary.Title, summary.MessageCount)
			}
		},
	}
}
