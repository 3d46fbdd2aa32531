package command

import (
	"context"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/ergomake/layeredit/internal/editing"
)

// spinningPrompt shows a spinner between a save or discard decision and the message that reports
// how it went.
type spinningPrompt struct {
	editing.PromptService
	spinner *spinner.Spinner
}

var _ editing.PromptService = &spinningPrompt{}

func newSpinningPrompt(inner editing.PromptService, out io.Writer) *spinningPrompt {
	return &spinningPrompt{
		PromptService: inner,
		spinner: spinner.New(
			spinner.CharSets[14],
			60*time.Millisecond,
			spinner.WithWriter(out),
		),
	}
}

func (p *spinningPrompt) AskSaveDiscardCancel(ctx context.Context, message string) (editing.Decision, error) {
	d, err := p.PromptService.AskSaveDiscardCancel(ctx, message)
	if err != nil {
		return d, err
	}

	switch d {
	case editing.DecisionSave:
		p.spinner.Suffix = " Saving changes"
		p.spinner.Start()
	case editing.DecisionDiscard:
		p.spinner.Suffix = " Discarding changes"
		p.spinner.Start()
	}

	return d, nil
}

func (p *spinningPrompt) Info(message string) {
	p.Stop()
	p.PromptService.Info(message)
}

func (p *spinningPrompt) Warn(message string) {
	p.Stop()
	p.PromptService.Warn(message)
}

func (p *spinningPrompt) Stop() {
	if p.spinner.Active() {
		p.spinner.Stop()
	}
}
