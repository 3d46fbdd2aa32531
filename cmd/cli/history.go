package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/command"
	"github.com/ergomake/layeredit/pkg/data"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <handle>",
	Short: "Show the edits of the open edit session of a layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := data.ParseHandle(args[0])
		if err != nil {
			return err
		}

		return withWorkspace(cmd, func(ctx context.Context, ws *command.Workspace) error {
			return command.NewHistory(ws, os.Stdout).Run(ctx, h)
		})
	},
}
