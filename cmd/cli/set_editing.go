package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/leconfig"
)

func init() {
	configSetEditingCmd.Flags().String("save-timeout", "", "how long a save or reload may take, e.g. 30s")
	configSetEditingCmd.Flags().Int("error-summary-limit", 0, "how many feature errors a partial save reports")
	configSetEditingCmd.Flags().String("partial-save", "", "what to do after a partial save, must be \"close\" or \"keep\"")

	configCmd.AddCommand(configSetEditingCmd)
}

var configSetEditingCmd = &cobra.Command{
	Use:   "set-editing",
	Short: "Set editing options in layeredit config file",
	Example: `# Keep the edit session open when some features fail to save
layeredit config set-editing --partial-save keep --save-timeout 1m`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := leconfig.Load("")
		if err != nil {
			return errors.Wrap(err, "fail to load config")
		}

		next := cfg.Editing
		if cmd.Flags().Changed("save-timeout") {
			next.SaveTimeout, _ = cmd.Flags().GetString("save-timeout")
		}
		if cmd.Flags().Changed("error-summary-limit") {
			next.ErrorSummaryLimit, _ = cmd.Flags().GetInt("error-summary-limit")
		}
		if cmd.Flags().Changed("partial-save") {
			next.PartialSave, _ = cmd.Flags().GetString("partial-save")
		}

		err = leconfig.ValidateEditing(next)
		if err != nil {
			return errors.Wrap(err, "invalid editing configuration")
		}

		cfg.Editing = next
		err = cfg.Save()
		if err != nil {
			return errors.Wrap(err, "fail to save config file")
		}

		fmt.Fprintln(os.Stdout, "Editing options updated.")
		return nil
	},
}
