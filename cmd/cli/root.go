package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().String("metrics-file", "", "write lifecycle metrics in the Prometheus text format to this file")
	rootCmd.PersistentFlags().String("trace-file", "", "append save, reload and editability spans as JSON to this file")
}

var rootCmd = &cobra.Command{
	Use:   "layeredit",
	Short: "Edit vector layers and save them back to their sources",
	Long: `layeredit puts vector layers in and out of edit mode and saves the edits back to where the layer came from.

Layers live in memory (saved as layer files), in shape files edited in place, or in external sources such as SQLite databases and feature services.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
