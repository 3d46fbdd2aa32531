package cli

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/command"
	"github.com/ergomake/layeredit/pkg/data"
)

func init() {
	featureAddCmd.Flags().String("coords", "", "geometry parts as JSON, e.g. [[[0,0]]] for a point or [[[0,0],[1,1]]] for a line")
	featureAddCmd.Flags().StringToString("attr", map[string]string{}, "attribute values as name=value")
	_ = featureAddCmd.MarkFlagRequired("coords")

	featureUpdateCmd.Flags().String("coords", "", "new geometry parts as JSON, the geometry is kept when empty")
	featureUpdateCmd.Flags().StringToString("attr", map[string]string{}, "attribute values to set as name=value")

	featureCmd.AddCommand(featureAddCmd, featureUpdateCmd, featureDeleteCmd)
	rootCmd.AddCommand(featureCmd)
}

var featureCmd = &cobra.Command{
	Use:   "feature",
	Short: "Edit features of a layer in edit mode",
	Example: `# Add a well
layeredit feature add 1 --coords '[[[10.5,3.2]]]' --attr depth=120

# Move it
layeredit feature update 1 <feature id> --coords '[[[10.7,3.1]]]'`,
}

func runFeature(cmd *cobra.Command, handle string, fn func(ctx context.Context, features featureEditor, h data.Handle) error) error {
	h, err := data.ParseHandle(handle)
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

		return fn(ctx, command.NewFeature(ws, edit.Manager(), os.Stdout), h)
	})
}

type featureEditor interface {
	Add(ctx context.Context, h data.Handle, parts [][]data.Coordinate, attributes map[string]string) (string, error)
	Update(ctx context.Context, h data.Handle, id string, parts [][]data.Coordinate, attributes map[string]string) error
	Delete(ctx context.Context, h data.Handle, id string) error
}

func coordsFlag(cmd *cobra.Command) ([][]data.Coordinate, error) {
	raw, err := cmd.Flags().GetString("coords")
	if err != nil {
		return nil, errors.Wrap(err, "fail to get --coords flag, this is a bug in layeredit")
	}

	if raw == "" {
		return nil, nil
	}

	return command.ParseParts(raw)
}

var featureAddCmd = &cobra.Command{
	Use:   "add <handle>",
	Short: "Add a feature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parts, err := coordsFlag(cmd)
		if err != nil {
			return err
		}

		attrs, _ := cmd.Flags().GetStringToString("attr")

		return runFeature(cmd, args[0], func(ctx context.Context, features featureEditor, h data.Handle) error {
			_, err := features.Add(ctx, h, parts, attrs)
			return err
		})
	},
}

var featureUpdateCmd = &cobra.Command{
	Use:   "update <handle> <feature id>",
	Short: "Update the geometry or attributes of a feature",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parts, err := coordsFlag(cmd)
		if err != nil {
			return err
		}

		attrs, _ := cmd.Flags().GetStringToString("attr")

		return runFeature(cmd, args[0], func(ctx context.Context, features featureEditor, h data.Handle) error {
			return features.Update(ctx, h, args[1], parts, attrs)
		})
	},
}

var featureDeleteCmd = &cobra.Command{
	Use:   "delete <handle> <feature id>",
	Short: "Delete a feature",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFeature(cmd, args[0], func(ctx context.Context, features featureEditor, h data.Handle) error {
			return features.Delete(ctx, h, args[1])
		})
	},
}
