package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/command"
	"github.com/ergomake/layeredit/pkg/data"
)

func init() {
	layerAddCmd.Flags().String("source", "", "driver URI of an external source, sqlite://<path>?table=<name>[&mode=ro] or a feature service layer url")
	layerAddCmd.Flags().Bool("dynamic", false, "the source is loaded as a stream, such layers cannot be edited")
	layerAddCmd.Flags().String("create-table", "", "create the source table with this geometry type first")
	layerAddCmd.Flags().String("file", "", "a shape file (*.lfshape) or a layer file saved from memory, local path or s3://bucket/key")

	layerCmd.AddCommand(layerAddCmd)
}

var layerAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Register an existing layer",
	Long: `Register an existing layer.

Exactly one of --source or --file must be given. The name defaults to the table or file name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		dynamic, _ := cmd.Flags().GetBool("dynamic")
		createTable, _ := cmd.Flags().GetString("create-table")
		file, _ := cmd.Flags().GetString("file")

		opts := command.LayerAddOptions{
			Source:      source,
			Dynamic:     dynamic,
			CreateTable: data.GeometryType(createTable),
			File:        file,
		}
		if createTable != "" && !opts.CreateTable.Valid() {
			return errors.Errorf("invalid geometry type %q", createTable)
		}

		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		return withWorkspace(cmd, func(ctx context.Context, ws *command.Workspace) error {
			h, err := command.NewLayerAdd(ws).Run(ctx, name, opts)
			if err != nil {
				return errors.Wrap(err, "fail to add layer")
			}

			fmt.Fprintf(os.Stdout, "Layer added with handle %s.\n", h)
			return nil
		})
	},
}
