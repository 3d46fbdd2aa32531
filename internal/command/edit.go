package command

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/editing"
	"github.com/ergomake/layeredit/pkg/data"
)

type editCommand struct {
	manager *editing.Manager
	prompt  *spinningPrompt
	out     io.Writer
}

// NewEdit wraps prompt so a spinner runs while a save or discard is in progress.
func NewEdit(ws *Workspace, prompt PromptDialog, out io.Writer) (*editCommand, error) {
	sp := newSpinningPrompt(prompt, out)
	manager, err := ws.Manager(sp, prompt)
	if err != nil {
		return nil, errors.Wrap(err, "fail to create edit session manager")
	}

	return &editCommand{manager: manager, prompt: sp, out: out}, nil
}

// Toggle enters edit mode, or asks to save or discard when already editing.
func (c *editCommand) Toggle(ctx context.Context, h data.Handle) error {
	defer c.prompt.Stop()

	err := c.manager.ToggleEditing(ctx, h)
	if err != nil {
		return err
	}

	return c.printState(h)
}

// Save asks to save or discard the edits of h.
func (c *editCommand) Save(ctx context.Context, h data.Handle) error {
	defer c.prompt.Stop()

	closed, err := c.manager.SaveOrDiscard(ctx, h)
	if err != nil {
		return err
	}

	if !closed {
		fmt.Fprintf(c.out, "Layer %s is still in edit mode.\n", h)
		return nil
	}

	return c.printState(h)
}

func (c *editCommand) Manager() *editing.Manager {
	return c.manager
}

func (c *editCommand) printState(h data.Handle) error {
	state, err := c.manager.State(h)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Layer %s is %s.\n", h, state)
	return nil
}
