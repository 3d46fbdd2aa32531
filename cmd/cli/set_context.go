package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/leconfig"
)

func init() {
	configSetContextCmd.Flags().StringP("type", "t", "local", "type of the context entry, must be \"local\" or \"s3\"")
	configSetContextCmd.Flags().String("dir", "", "directory to store layers, sessions and history, required when type is \"local\"")
	configSetContextCmd.Flags().String("bucket", "", "bucket to store layers, sessions and history, required when type is \"s3\"")
	configSetContextCmd.Flags().String("region", "", "region where bucket is located, required when type is \"s3\"")
	configSetContextCmd.Flags().String("feature-service-url", "", "url of the feature service used by http(s) layer sources")
	configSetContextCmd.Flags().String("email", "", "email of the feature service user")
	configSetContextCmd.Flags().String("password", "", "password of the feature service user")
	configSetContextCmd.Flags().SortFlags = false

	configCmd.AddCommand(configSetContextCmd)
}

var configSetContextCmd = &cobra.Command{
	Use:   "set-context <name>",
	Short: "Set a context entry in layeredit config file",
	Long: `Set a context entry in layeredit config file.

  Specifying a name that already exists will update that context values unless the type is different.`,
	Example: `# Set a context of type local named local-example
layeredit config set-context local-example -t local --dir example-dir

# Set a context of type s3 named s3-example
layeredit config set-context s3-example -t s3 --bucket example-bucket --region us-east-1

# Set a context that can edit layers of a feature service
layeredit config set-context shared -t local --dir shared --feature-service-url https://features.example.com --email foo@example.com --password secretpass`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		t, _ := cmd.Flags().GetString("type")
		configCtx := leconfig.ConfigContext{Type: t}
		switch configCtx.Type {
		case "local":
			dir, _ := cmd.Flags().GetString("dir")
			configCtx.Dir = strings.TrimSpace(dir)
		case "s3":
			bucket, _ := cmd.Flags().GetString("bucket")
			region, _ := cmd.Flags().GetString("region")
			configCtx.Bucket = strings.TrimSpace(bucket)
			configCtx.Region = strings.TrimSpace(region)
		default:
			fmt.Fprintf(os.Stderr, "invalid type %s\n", configCtx.Type)
			os.Exit(1)
		}

		url, _ := cmd.Flags().GetString("feature-service-url")
		if url = strings.TrimSpace(url); url != "" {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			configCtx.FeatureService = &leconfig.FeatureServiceConfig{
				URL:      url,
				Email:    strings.TrimSpace(email),
				Password: strings.TrimSpace(password),
			}
		}

		err := leconfig.Validate(configCtx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "invalid context configuration"))
			os.Exit(1)
		}

		cfg, err := leconfig.Load("")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "fail to open config file"))
			os.Exit(1)
		}

		action := "modified"
		if cfg == nil {
			action = "created"
			cfg, err = leconfig.Init(name, configCtx, "")
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "fail to initialize empty config"))
				os.Exit(1)
			}
		} else {
			prev, ok := cfg.Contexts[name]
			if !ok {
				action = "created"
			}

			if ok && prev.Type != t {
				fmt.Fprintf(
					os.Stderr,
					"%s context already exists with a different type of %s, context type can't be updated.\n",
					name,
					prev.Type,
				)
				os.Exit(1)
			}
			cfg.Contexts[name] = configCtx
		}

		cfg.CurrentContext = name

		err = cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "fail to save config file"))
			os.Exit(1)
		}

		fmt.Fprintf(os.Stdout, "Context \"%s\" %s.\n", name, action)
	},
	SilenceErrors: true,
}
