package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/command"
	"github.com/ergomake/layeredit/pkg/data"
)

func init() {
	addPromptFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <handle>",
	Short: "Toggle edit mode of a layer",
	Long: `Toggle edit mode of a layer.

A read-only layer enters edit mode. A layer already in edit mode asks whether to save, discard or keep editing.`,
	Example: `# Start editing layer 1
layeredit edit 1

# Stop editing layer 1, saving without asking
layeredit edit 1 --decision save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := data.ParseHandle(args[0])
		if err != nil {
			return err
		}

		return withWorkspace(cmd, func(ctx context.Context, ws *command.Workspace) error {
			term, err := newTerminal(cmd)
			if err != nil {
				return err
			}

			edit, err := command.NewEdit(ws, term, os.Stdout)
			if err != nil {
				return err
			}

			return edit.Toggle(ctx, h)
		})
	},
}
