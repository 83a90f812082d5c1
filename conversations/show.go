package conversations

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/councilhq/council/internal/cli"
	"github.com/councilhq/council/store"
)

// newShowCmd instantiates and returns the conversations show command.
func newShowCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a conversation's full transcript",
		Long:  "Show a conversation's full transcript",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			conversation, err := s.Get(cmd.Context(), args[0])
			cobra.CheckErr(err)

			cli.Title("%s", conversation.Title)
			cli.Info("id: %s\ncreated: %s\n", conversation.ID, conversation.CreatedAt)
			cli.Separator()

			for _, message := range conversation.Messages {
				switch message.Role {
				case store.RoleUser:
					cli.UserInput("> %s\n", message.Content)
				case store.RoleAssistant:
					cli.AIOutput(renderStage(message.Stage3))
					cli.AIOutput("\n")
				}
			}
		},
	}
}

// renderStage pretty-prints an opaque stage payload. The payload's structure
// is unknown to this tool, so it is shown as indented JSON.
func renderStage(stage json.RawMessage) string {
	if len(stage) == 0 {
		return "(no synthesized answer)"
	}
	var indented []byte
	var value interface{}
	if err := json.Unmarshal(stage, &value); err == nil {
		indented, _ = json.MarshalIndent(value, "", "  ")
	}
	if indented == nil {
		return string(stage)
	}
	return string(indented)
}
