// Package prompt asks the operator for decisions on a terminal.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/editing"
	"github.com/ergomake/layeredit/internal/persistence"
)

type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	err io.Writer

	decision *editing.Decision
	savePath string
}

var (
	_ editing.PromptService         = &Terminal{}
	_ persistence.FileDialogService = &Terminal{}
)

type Option func(t *Terminal)

// WithDecision answers every save/discard/cancel question with d instead of reading input.
func WithDecision(d editing.Decision) Option {
	return func(t *Terminal) { t.decision = &d }
}

// WithSavePath answers save path requests with p instead of reading input.
func WithSavePath(p string) Option {
	return func(t *Terminal) { t.savePath = p }
}

func NewTerminal(in io.Reader, out, errOut io.Writer, opts ...Option) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), out: out, err: errOut}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

func ParseDecision(s string) (editing.Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "save":
		return editing.DecisionSave, nil
	case "d", "discard":
		return editing.DecisionDiscard, nil
	case "c", "cancel":
		return editing.DecisionCancel, nil
	}

	return editing.DecisionCancel, errors.Errorf("invalid decision %q, expected save, discard or cancel", s)
}

// AskSaveDiscardCancel keeps asking until the answer is valid. End of input cancels.
func (t *Terminal) AskSaveDiscardCancel(ctx context.Context, message string) (editing.Decision, error) {
	if t.decision != nil {
		hclog.FromContext(ctx).Debug("Using preset decision", "decision", *t.decision)
		return *t.decision, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return editing.DecisionCancel, err
		}

		fmt.Fprintf(t.out, "%s [s]ave, [d]iscard, [c]ancel: ", message)

		line, err := t.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(t.out)
			return editing.DecisionCancel, nil
		}

		if err != nil {
			return editing.DecisionCancel, errors.Wrap(err, "fail to read answer")
		}

		d, err := ParseDecision(line)
		if err == nil {
			return d, nil
		}

		fmt.Fprintln(t.err, err)
	}
}

// RequestSavePath returns false when the answer is empty or input ended.
func (t *Terminal) RequestSavePath(ctx context.Context, filter, currentName string) (string, bool) {
	if t.savePath != "" {
		return t.savePath, true
	}

	fmt.Fprintf(t.out, "Save %s as (%s): ", currentName, filter)

	line, err := t.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		hclog.FromContext(ctx).Warn("Fail to read save path", "err", err)
		return "", false
	}

	p := strings.TrimSpace(line)
	return p, p != ""
}

func (t *Terminal) Info(message string) {
	fmt.Fprintln(t.out, message)
}

func (t *Terminal) Warn(message string) {
	fmt.Fprintf(t.err, "WARNING: %s\n", message)
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line != "" && errors.Is(err, io.EOF) {
		return strings.TrimSpace(line), nil
	}

	return strings.TrimSpace(line), err
}
