package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(layerCmd)
}

var layerCmd = &cobra.Command{
	Use:   "layer",
	Short: "Register, create and list layers",
	Example: `# Register a table of a SQLite database
layeredit layer add roads --source "sqlite:///data/city.db?table=roads"

# Create an empty shape file layer and start editing it
layeredit layer create parcels --geometry polygon --file parcels.lfshape`,
}
