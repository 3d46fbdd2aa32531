package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/leconfig"
)

func init() {
	configCmd.AddCommand(configUseContextCmd)
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Switch the context layeredit stores layers in",
	Long: `Switch the current context.

  Layers, edit sessions and history of the previous context are left untouched and come back
  when it is used again. Naming a context that does not exist lists the known ones.`,
	Example: `# Edit the layers kept in the s3 context
layeredit config use-context s3-example`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := leconfig.Load("")
		if err != nil {
			return errors.Wrap(err, "fail to load config")
		}

		next, ok := cfg.Contexts[name]
		if !ok {
			names := make([]string, 0, len(cfg.Contexts))
			for n := range cfg.Contexts {
				names = append(names, n)
			}
			sort.Strings(names)

			return errors.Errorf("unknown context %q, known contexts: %s", name, strings.Join(names, ", "))
		}

		if cfg.CurrentContext == name {
			fmt.Fprintf(os.Stdout, "Already using context %q.\n", name)
			return nil
		}

		cfg.CurrentContext = name
		err = cfg.Save()
		if err != nil {
			return errors.Wrap(err, "fail to save config")
		}

		fmt.Fprintf(os.Stdout, "Using context %q, layers at %s.\n", name, next.Location())
		return nil
	},
}
