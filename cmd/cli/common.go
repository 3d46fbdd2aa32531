package cli

import (
	"context"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/layeredit/internal/command"
	"github.com/ergomake/layeredit/internal/leconfig"
	"github.com/ergomake/layeredit/internal/metrics"
	"github.com/ergomake/layeredit/internal/prompt"
)

func newContext() context.Context {
	logger := hclog.Default()
	logLevel := hclog.LevelFromString(os.Getenv("LE_LOG"))
	if logLevel != hclog.NoLevel {
		logger.SetLevel(logLevel)
	}

	return hclog.WithContext(context.Background(), logger)
}

// withWorkspace loads the current context and runs fn. It dumps metrics when --metrics-file is set
// and spans when --trace-file is set.
func withWorkspace(cmd *cobra.Command, fn func(ctx context.Context, ws *command.Workspace) error) error {
	ctx := newContext()

	cfg, err := leconfig.Load("")
	if err != nil {
		return errors.Wrap(err, "fail to load config")
	}

	metricsFile, err := cmd.Flags().GetString("metrics-file")
	if err != nil {
		return errors.Wrap(err, "fail to get --metrics-file flag, this is a bug in layeredit")
	}

	var m *metrics.Metrics
	if metricsFile != "" {
		m = metrics.New()
	}

	traceFile, err := cmd.Flags().GetString("trace-file")
	if err != nil {
		return errors.Wrap(err, "fail to get --trace-file flag, this is a bug in layeredit")
	}

	stopTracing, err := startTracing(ctx, traceFile)
	if err != nil {
		return err
	}
	defer stopTracing()

	ws, err := command.NewWorkspace(ctx, cfg, m)
	if err != nil {
		return err
	}

	err = fn(ctx, ws)

	if werr := m.WriteToTextfile(metricsFile); werr != nil {
		hclog.FromContext(ctx).Warn("Fail to write metrics", "path", metricsFile, "err", werr)
	}

	return err
}

func addPromptFlags(cmd *cobra.Command) {
	cmd.Flags().String("decision", "", "answer the save question without asking, must be \"save\", \"discard\" or \"cancel\"")
	cmd.Flags().String("save-as", "", "save target for in memory layers that were never saved, a local path or s3://bucket/key")
}

func newTerminal(cmd *cobra.Command) (*prompt.Terminal, error) {
	opts := []prompt.Option{}

	decision, err := cmd.Flags().GetString("decision")
	if err != nil {
		return nil, errors.Wrap(err, "fail to get --decision flag, this is a bug in layeredit")
	}

	if decision != "" {
		d, err := prompt.ParseDecision(decision)
		if err != nil {
			return nil, err
		}

		opts = append(opts, prompt.WithDecision(d))
	}

	saveAs, err := cmd.Flags().GetString("save-as")
	if err != nil {
		return nil, errors.Wrap(err, "fail to get --save-as flag, this is a bug in layeredit")
	}

	if saveAs != "" {
		opts = append(opts, prompt.WithSavePath(saveAs))
	}

	return prompt.NewTerminal(os.Stdin, os.Stdout, os.Stderr, opts...), nil
}
