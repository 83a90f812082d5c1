// Package conversations holds the CLI commands for inspecting and mutating
// stored conversations.
package conversations

import (
	"github.com/spf13/cobra"

	"github.com/councilhq/council/store"
)

// NewCmd instantiates and returns the conversations command.
func NewCmd(s *store.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "Manage stored conversations",
		Long:  "Manage stored conversations",
	}
	cmd.AddCommand(newListCmd(s))
	cmd.AddCommand(newShowCmd(s))
	cmd.AddCommand(newCreateCmd(s))
	cmd.AddCommand(newTitleCmd(s))
	return cmd
}
