package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/command"
)

func init() {
	layerListCmd.Flags().StringP("template", "t", "", "mustache template file to render the layer list with")
	layerCmd.AddCommand(layerListCmd)
}

var layerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered layers",
	Long: `List registered layers.

Prints a table of the most important information about layers, or renders them with a
mustache template whose "layers" section has handle, name, backend, state, dirty, features
and location.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		template, _ := cmd.Flags().GetString("template")

		return withWorkspace(cmd, func(ctx context.Context, ws *command.Workspace) error {
			return command.NewLayerList(ws, os.Stdout).Run(ctx, template)
		})
	},
}
