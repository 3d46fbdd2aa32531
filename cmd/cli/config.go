package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage contexts and editing options",
	Long: `Manage the layeredit config file.

  A context says where layers, edit sessions and history are stored, and which feature service
  backs http(s) layer sources. Editing options apply to every context.`,
	Example: `# Store state in a local directory and switch to it
layeredit config set-context field -t local --dir ~/.layeredit/field
layeredit config use-context field

# Keep editing after a partial save
layeredit config set-editing --partial-save keep`,
}
