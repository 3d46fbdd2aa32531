package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/command"
	"github.com/ergomake/layeredit/pkg/data"
)

func init() {
	addPromptFlags(saveCmd)
	rootCmd.AddCommand(saveCmd)
}

var saveCmd = &cobra.Command{
	Use:   "save <handle>",
	Short: "Save or discard the edits of a layer",
	Long: `Save or discard the edits of a layer.

The layer must be in edit mode. Saving or discarding closes the edit session, cancelling keeps it open.`,
	Example: `# Discard every edit made to layer 2
layeredit save 2 --decision discard

# Save a layer created in memory to a file
layeredit save 3 --decision save --save-as wells.json`,
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

			return edit.Save(ctx, h)
		})
	},
}
