package command

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/pkg/data"
)

type historyCommand struct {
	ws  *Workspace
	out io.Writer
}

func NewHistory(ws *Workspace, out io.Writer) *historyCommand {
	return &historyCommand{ws, out}
}

func (c *historyCommand) Run(ctx context.Context, h data.Handle) error {
	if _, err := c.ws.Repository.Layer(h); err != nil {
		return err
	}

	entries, err := c.ws.History.ForLayer(ctx, h)
	if err != nil {
		return errors.Wrap(err, "fail to read history")
	}

	if len(entries) == 0 {
		fmt.Fprintf(c.out, "No edits recorded for layer %s.\n", h)
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SEQ\tAT\tKIND\tFEATURE\tINDEX")
	for _, e := range entries {
		id := ""
		if e.Change.Feature != nil {
			id = e.Change.Feature.ID
		}

		fmt.Fprintln(w, strings.Join([]string{
			strconv.Itoa(e.Seq),
			e.At.Format(time.RFC3339),
			string(e.Change.Kind),
			id,
			strconv.Itoa(e.Change.Index),
		}, "\t"))
	}

	return errors.Wrap(w.Flush(), "fail to print output")
}
