package command

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/editing"
	"github.com/ergomake/layeredit/internal/history"
	"github.com/ergomake/layeredit/internal/layers"
	"github.com/ergomake/layeredit/internal/metrics"
	"github.com/ergomake/layeredit/internal/notify"
	"github.com/ergomake/layeredit/internal/persistence"
	"github.com/ergomake/layeredit/internal/sessions"
	"github.com/ergomake/layeredit/internal/vectorsource"
)

type WorkspaceConfig interface {
	GetLayersBackend(ctx context.Context) (layers.Backend, error)
	GetSessionsBackend(ctx context.Context) (sessions.Backend, error)
	GetHistoryBackend(ctx context.Context) (history.Log, error)
	GetVectorSourceOptions() vectorsource.Options
	GetEditingOptions() (editing.Options, error)
}

// Workspace is everything a command needs to edit the layers of the current context.
type Workspace struct {
	Repository *layers.Repository
	Sessions   sessions.Backend
	History    history.Log
	Bus        *notify.Bus
	Metrics    *metrics.Metrics
	Options    editing.Options

	open layers.DriverOpener
}

func NewWorkspace(ctx context.Context, cfg WorkspaceConfig, m *metrics.Metrics) (*Workspace, error) {
	layersBackend, err := cfg.GetLayersBackend(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fail to get layers backend")
	}

	sessionsBackend, err := cfg.GetSessionsBackend(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fail to get sessions backend")
	}

	historyLog, err := cfg.GetHistoryBackend(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fail to get history backend")
	}

	opts, err := cfg.GetEditingOptions()
	if err != nil {
		return nil, errors.Wrap(err, "fail to get editing options")
	}

	vopts := cfg.GetVectorSourceOptions()
	open := func(ctx context.Context, source string) (vectorsource.Driver, error) {
		return vectorsource.Open(ctx, source, vopts)
	}

	repo, err := layers.NewRepository(ctx, layersBackend, open)
	if err != nil {
		return nil, errors.Wrap(err, "fail to load layers")
	}

	return &Workspace{
		Repository: repo,
		Sessions:   sessionsBackend,
		History:    historyLog,
		Bus:        notify.NewBus(),
		Metrics:    m,
		Options:    opts,
		open:       open,
	}, nil
}

// Manager builds an edit session manager that asks questions through prompt.
func (w *Workspace) Manager(prompt editing.PromptService, dialog persistence.FileDialogService) (*editing.Manager, error) {
	return editing.NewManager(editing.Deps{
		Repository: w.Repository,
		Prompt:     prompt,
		Dialog:     dialog,
		Bus:        w.Bus,
		History:    w.History,
		Sessions:   w.Sessions,
		Metrics:    w.Metrics,
		Options:    w.Options,
	})
}
