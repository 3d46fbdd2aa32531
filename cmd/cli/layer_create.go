package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/command"
	"github.com/ergomake/layeredit/internal/editing"
	"github.com/ergomake/layeredit/pkg/data"
)

func init() {
	layerCreateCmd.Flags().StringP("geometry", "g", "point", "geometry type, one of point, multipoint, linestring or polygon")
	layerCreateCmd.Flags().StringToString("field", map[string]string{}, "attribute fields as name=type, type is string, integer or double")
	layerCreateCmd.Flags().String("file", "", "shape file to create, the layer is kept in memory when empty")

	addPromptFlags(layerCreateCmd)
	layerCmd.AddCommand(layerCreateCmd)
}

var layerCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty layer and start editing it",
	Example: `# Create a layer in memory, it is written to a layer file on the first save
layeredit layer create wells --field depth=double

# Create a shape file layer
layeredit layer create parcels -g polygon --file parcels.lfshape`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		geometry, _ := cmd.Flags().GetString("geometry")
		fieldFlags, _ := cmd.Flags().GetStringToString("field")
		file, _ := cmd.Flags().GetString("file")

		nl := editing.NewLayer{
			Name:         args[0],
			GeometryType: data.GeometryType(geometry),
			Backend:      data.BackendMemory,
		}

		if file != "" {
			if !strings.HasSuffix(file, command.SHAPE_FILE_EXT) {
				file += command.SHAPE_FILE_EXT
			}

			nl.Backend = data.BackendFile
			nl.Filename = file
		}

		for name, t := range fieldFlags {
			ft := data.FieldType(t)
			switch ft {
			case data.FieldString, data.FieldInteger, data.FieldDouble:
			default:
				return errors.Errorf("invalid type %q for field %s", t, name)
			}

			nl.Fields = append(nl.Fields, data.Field{Name: name, Type: ft})
		}
		sort.Slice(nl.Fields, func(i, j int) bool { return nl.Fields[i].Name < nl.Fields[j].Name })

		return withWorkspace(cmd, func(ctx context.Context, ws *command.Workspace) error {
			term, err := newTerminal(cmd)
			if err != nil {
				return err
			}

			edit, err := command.NewEdit(ws, term, os.Stdout)
			if err != nil {
				return err
			}

			h, err := command.NewLayerCreate(edit.Manager()).Run(ctx, nl)
			if err != nil {
				return errors.Wrap(err, "fail to create layer")
			}

			fmt.Fprintf(os.Stdout, "Layer %s created with handle %s and is now in edit mode.\n", nl.Name, h)
			return nil
		})
	},
}
