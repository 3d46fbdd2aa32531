package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/leconfig"
)

func init() {
	configCmd.AddCommand(configGetContextsCmd)
}

var configGetContextsCmd = &cobra.Command{
	Use:   "get-contexts",
	Short: "Display contexts from layeredit config file",
	Long:  `Display contexts from layeredit config file`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := leconfig.Load("")
		if err != nil {
			fmt.Fprintln(os.Stdout, "No contexts configured, configure contexts using the set-context command.")
			return
		}

		names := make([]string, 0, len(cfg.Contexts))
		for name := range cfg.Contexts {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tTYPE\tLOCATION\tFEATURE SERVICE")
		for _, name := range names {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}

			fs := ""
			if ctx.FeatureService != nil {
				fs = ctx.FeatureService.URL
			}

			fmt.Fprintln(w, strings.Join([]string{current, name, ctx.Type, ctx.Location(), fs}, "\t"))
		}
		err = w.Flush()

		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "fail to print output"))
			os.Exit(1)
		}
	},
	SilenceErrors: true,
}
