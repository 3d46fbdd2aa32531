package editing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/history"
	"github.com/ergomake/layeredit/internal/metrics"
	"github.com/ergomake/layeredit/internal/notify"
	"github.com/ergomake/layeredit/internal/persistence"
	"github.com/ergomake/layeredit/internal/sessions"
	"github.com/ergomake/layeredit/internal/shapestore"
	"github.com/ergomake/layeredit/internal/snapshot"
	"github.com/ergomake/layeredit/pkg/data"
)

type Deps struct {
	Repository LayerRepository
	Prompt     PromptService
	Dialog     persistence.FileDialogService
	Bus        NotificationBus
	History    history.Log
	Sessions   sessions.Backend

	// Editor and Metrics are optional.
	Editor  GeometryEditor
	Metrics *metrics.Metrics

	Options Options
}

type adapterFactory func(layer *data.Layer, deps persistence.Deps) (persistence.Adapter, error)

// Manager is the single authority for edit state transitions. Operations on the same layer are
// serialized, a concurrent call gets ErrBusy.
type Manager struct {
	deps       Deps
	newAdapter adapterFactory

	mu     sync.Mutex
	locks  map[data.Handle]*sync.Mutex
	saving map[data.Handle]bool
}

func NewManager(deps Deps) (*Manager, error) {
	switch {
	case deps.Repository == nil:
		return nil, errors.New("layer repository is required")
	case deps.Prompt == nil:
		return nil, errors.New("prompt service is required")
	case deps.Bus == nil:
		return nil, errors.New("notification bus is required")
	case deps.History == nil:
		return nil, errors.New("history log is required")
	case deps.Sessions == nil:
		return nil, errors.New("session backend is required")
	}

	return &Manager{
		deps:       deps,
		newAdapter: persistence.New,
		locks:      make(map[data.Handle]*sync.Mutex),
		saving:     make(map[data.Handle]bool),
	}, nil
}

func (m *Manager) lock(h data.Handle) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[h]
	if !ok {
		l = &sync.Mutex{}
		m.locks[h] = l
	}
	m.mu.Unlock()

	if !l.TryLock() {
		return nil, errors.Wrapf(ErrBusy, "layer %s", h)
	}

	return l.Unlock, nil
}

func (m *Manager) setSaving(h data.Handle, saving bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if saving {
		m.saving[h] = true
	} else {
		delete(m.saving, h)
	}
}

func (m *Manager) State(h data.Handle) (State, error) {
	layer, err := m.deps.Repository.Layer(h)
	if err != nil {
		return ReadOnly, err
	}

	if !layer.InteractiveEditing {
		return ReadOnly, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saving[h] {
		return Saving, nil
	}

	return Editing, nil
}

// ToggleEditing enters edit mode on a read-only layer, or asks to save or discard on an
// editing one.
func (m *Manager) ToggleEditing(ctx context.Context, h data.Handle) error {
	unlock, err := m.lock(h)
	if err != nil {
		return err
	}
	defer unlock()

	layer, err := m.deps.Repository.Layer(h)
	if err != nil {
		return err
	}

	if layer.InteractiveEditing {
		_, err := m.saveOrDiscard(ctx, layer)
		return err
	}

	return m.startEditing(ctx, layer)
}

// SaveOrDiscard returns true when the session was closed.
func (m *Manager) SaveOrDiscard(ctx context.Context, h data.Handle) (bool, error) {
	unlock, err := m.lock(h)
	if err != nil {
		return false, err
	}
	defer unlock()

	layer, err := m.deps.Repository.Layer(h)
	if err != nil {
		return false, err
	}

	if !layer.InteractiveEditing {
		return false, errors.Wrapf(ErrNotEditing, "layer %s", h)
	}

	return m.saveOrDiscard(ctx, layer)
}

// CloseEditing ends the session of h without saving. Closing a read-only layer does nothing.
func (m *Manager) CloseEditing(ctx context.Context, h data.Handle) error {
	unlock, err := m.lock(h)
	if err != nil {
		return err
	}
	defer unlock()

	return m.closeEditing(ctx, h)
}

// RecordEdit applies change to the working features of an editing layer.
func (m *Manager) RecordEdit(ctx context.Context, h data.Handle, change data.Change) error {
	unlock, err := m.lock(h)
	if err != nil {
		return err
	}
	defer unlock()

	layer, err := m.deps.Repository.Layer(h)
	if err != nil {
		return err
	}

	if !layer.InteractiveEditing {
		return errors.Wrapf(ErrNotEditing, "layer %s", h)
	}

	if change.Feature == nil {
		return errors.Wrap(ErrInvalidChange, "missing feature")
	}

	fs := layer.Features
	if fs == nil {
		fs = data.NewFeatureSet(data.GeometryPoint)
	}

	if change.Kind != data.ChangeDelete {
		if change.Feature.Geometry.Type != fs.GeometryType {
			return errors.Wrapf(ErrInvalidChange, "layer %s holds %s geometries, got %s", layer.Name, fs.GeometryType, change.Feature.Geometry.Type)
		}

		if !change.Feature.Geometry.Finite() {
			return errors.Wrap(ErrInvalidChange, "geometry has non finite coordinates")
		}
	}

	original := fs.Clone()

	idx := fs.IndexOf(change.Feature.ID)
	if !change.Apply(fs) {
		return errors.Wrapf(ErrInvalidChange, "cannot %s feature %s", change.Kind, change.Feature.ID)
	}

	if change.Kind == data.ChangeDelete {
		change.Index = idx
	} else {
		change.Index = fs.IndexOf(change.Feature.ID)
	}

	err = m.deps.Repository.ReplaceWorking(ctx, h, fs, true)
	if err != nil {
		return errors.Wrap(err, "fail to update working features")
	}

	err = m.deps.History.Append(ctx, h, change)
	if err != nil {
		if rerr := m.deps.Repository.ReplaceWorking(ctx, h, original, layer.Dirty); rerr != nil {
			hclog.FromContext(ctx).Error("Fail to undo edit without history entry", "layer", h, "err", rerr)
		}
		return errors.Wrap(err, "fail to append to history")
	}

	hclog.FromContext(ctx).Debug("Edit recorded", "layer", h, "kind", change.Kind, "feature", change.Feature.ID)
	m.deps.Bus.BroadcastRedraw(notify.LayerScope(h))

	return nil
}

// CreateLayer registers a new empty layer and opens an edit session on it.
func (m *Manager) CreateLayer(ctx context.Context, nl NewLayer) (data.Handle, error) {
	if nl.Name == "" {
		return 0, errors.New("layer name cannot be empty")
	}

	if !nl.GeometryType.Valid() {
		return 0, errors.Errorf("invalid geometry type %q", nl.GeometryType)
	}

	fs := data.NewFeatureSet(nl.GeometryType, nl.Fields...)

	switch nl.Backend {
	case data.BackendMemory:
	case data.BackendFile:
		if nl.Filename == "" {
			return 0, errors.New("file layers need a filename")
		}

		err := shapestore.Open(nl.Filename).Create(ctx, fs)
		if err != nil {
			return 0, errors.Wrap(err, "fail to create shape file")
		}
	default:
		return 0, errors.Errorf("layers can only be created in memory or as shape files, got %q", nl.Backend)
	}

	h, err := m.deps.Repository.AddLayer(ctx, &data.Layer{
		Name:     nl.Name,
		Backend:  nl.Backend,
		Filename: nl.Filename,
		Features: fs,
	})
	if err != nil {
		return 0, errors.Wrap(err, "fail to add layer")
	}

	unlock, err := m.lock(h)
	if err != nil {
		return h, err
	}
	defer unlock()

	layer, err := m.deps.Repository.Layer(h)
	if err != nil {
		return h, err
	}

	return h, m.startEditing(ctx, layer)
}

func (m *Manager) adapterFor(ctx context.Context, layer *data.Layer, owner string) (persistence.Adapter, func(), error) {
	cleanup := func() {}

	deps := persistence.Deps{
		Dialog:            m.deps.Dialog,
		Owner:             owner,
		Region:            m.deps.Options.Region,
		ErrorSummaryLimit: m.deps.Options.ErrorSummaryLimit,
	}

	drv, ok, err := m.deps.Repository.GetVectorLayer(ctx, layer.Handle)
	if err != nil {
		return nil, cleanup, errors.Wrap(err, "fail to get vector layer")
	}

	if ok {
		deps.Driver = drv
		cleanup = func() {
			if err := drv.Close(); err != nil {
				hclog.FromContext(ctx).Warn("Fail to close vector source", "layer", layer.Handle, "err", err)
			}
		}
	}

	adapter, err := m.newAdapter(layer, deps)
	if err != nil {
		cleanup()
		return nil, func() {}, errors.Wrap(err, "fail to create persistence adapter")
	}

	return adapter, cleanup, nil
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.deps.Options.SaveTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, m.deps.Options.SaveTimeout)
}

func (m *Manager) startEditing(ctx context.Context, layer *data.Layer) error {
	logger := hclog.FromContext(ctx)
	h := layer.Handle

	blob, err := snapshot.Serialize(layer.Features)
	if err != nil {
		return errors.Wrapf(err, "fail to snapshot layer %s", layer.Name)
	}

	session := sessions.New(h, blob)

	adapter, cleanup, err := m.adapterFor(ctx, layer, session.ID)
	defer cleanup()
	if err != nil {
		return err
	}

	err = adapter.CheckEditable(ctx)
	if err != nil {
		var capErr *persistence.CapabilityError
		if errors.As(err, &capErr) {
			logger.Debug("Layer cannot be edited", "layer", h, "reason", capErr.Reason)
			m.deps.Prompt.Info(capErr.Error())
			m.deps.Metrics.RecordTransition(metrics.TransitionCapabilityDenied)
			return capErr
		}

		return errors.Wrapf(err, "fail to check if layer %s is editable", layer.Name)
	}

	err = m.deps.Sessions.SaveSession(ctx, session)
	if err != nil {
		m.release(ctx, layer, session.ID)
		return errors.Wrap(err, "fail to save edit session")
	}

	err = m.deps.Repository.SetInteractiveEditing(ctx, h, true)
	if err != nil {
		m.release(ctx, layer, session.ID)
		if derr := m.deps.Sessions.DeleteSession(ctx, h); derr != nil {
			logger.Warn("Fail to delete edit session", "layer", h, "err", derr)
		}
		return errors.Wrap(err, "fail to enter edit mode")
	}

	logger.Debug("Edit session started", "layer", h, "session", session.ID)
	m.deps.Metrics.RecordTransition(metrics.TransitionEnter)
	m.deps.Bus.BroadcastEditingChanged(h)
	m.deps.Bus.BroadcastRedraw(notify.LayerScope(h))

	return nil
}

func (m *Manager) saveOrDiscard(ctx context.Context, layer *data.Layer) (bool, error) {
	if m.deps.Editor != nil && !m.deps.Editor.SaveChanges() {
		hclog.FromContext(ctx).Debug("Geometry editor refused to commit pending shape", "layer", layer.Handle)
		return false, nil
	}

	decision, err := m.deps.Prompt.AskSaveDiscardCancel(ctx, fmt.Sprintf("Save changes for the layer: %s?", layer.Name))
	if err != nil {
		return false, errors.Wrap(err, "fail to ask for a decision")
	}

	hclog.FromContext(ctx).Debug("Save or discard", "layer", layer.Handle, "decision", decision)

	switch decision {
	case DecisionSave:
		return m.save(ctx, layer)
	case DecisionDiscard:
		return m.discard(ctx, layer)
	}

	m.deps.Metrics.RecordTransition(metrics.TransitionCancel)
	return false, nil
}

// loadSession returns the open session of layer and the content it started from.
func (m *Manager) loadSession(ctx context.Context, layer *data.Layer) (*sessions.Session, *data.FeatureSet, error) {
	session, err := m.deps.Sessions.GetSession(ctx, layer.Handle)
	if err != nil {
		return nil, nil, err
	}

	if len(session.Snapshot) == 0 {
		return session, nil, errors.Wrapf(ErrNoSnapshot, "layer %s", layer.Handle)
	}

	before, err := snapshot.Deserialize(session.Snapshot)
	if err != nil {
		return session, nil, errors.Wrapf(err, "fail to restore snapshot of layer %s", layer.Handle)
	}

	return session, before, nil
}

func (m *Manager) save(ctx context.Context, layer *data.Layer) (bool, error) {
	logger := hclog.FromContext(ctx)
	h := layer.Handle

	session, before, err := m.loadSession(ctx, layer)
	if err != nil {
		return false, err
	}

	changes := data.Diff(before, layer.Features)

	adapter, cleanup, err := m.adapterFor(ctx, layer, session.ID)
	defer cleanup()
	if err != nil {
		return false, err
	}

	m.setSaving(h, true)
	defer m.setSaving(h, false)

	saveCtx, cancel := m.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	report := adapter.Save(saveCtx, persistence.SaveRequest{Working: layer.Features, Changes: changes})
	outcome := report.Outcome
	m.deps.Metrics.RecordSave(string(adapter.Kind()), string(outcome.Kind), outcome.SavedCount, time.Since(start))

	logger.Debug("Save finished", "layer", h, "outcome", outcome.Kind, "saved", outcome.SavedCount, "pending", len(changes))

	if report.Filename != "" {
		err := m.deps.Repository.SetFilename(ctx, h, report.Filename)
		if err != nil {
			logger.Warn("Fail to record save target", "layer", h, "target", report.Filename, "err", err)
		}
	}

	if report.Warning != nil {
		m.deps.Prompt.Warn(report.Warning.Error())

		if outcome.Kind != persistence.OutcomeFailed && saveCtx.Err() != nil {
			return false, m.interruptedAfterSave(ctx, layer, session, outcome, report.Warning)
		}
	}

	switch outcome.Kind {
	case persistence.OutcomeFailed:
		err := report.Err()
		logger.Warn("Save failed", "layer", h, "err", err)
		m.deps.Prompt.Warn(err.Error())
		return false, err
	case persistence.OutcomePartialSaved:
		err := report.Err()
		m.deps.Prompt.Warn(err.Error())

		if m.deps.Options.PartialSave == KeepEditing {
			return false, m.keepPartial(ctx, layer, session, report, err)
		}
	}

	if report.Reloaded != nil {
		err := m.deps.Repository.ReplaceFeatures(ctx, h, report.Reloaded)
		if err != nil {
			return false, errors.Wrap(err, "fail to replace features with reloaded content")
		}
	}

	m.deps.Prompt.Info(fmt.Sprintf("%s: %s; features: %d", outcome, layer.Name, outcome.SavedCount))

	return true, m.closeEditing(ctx, h)
}

// keepPartial moves the session baseline to what the backend now holds, so only the edits that
// failed stay pending.
func (m *Manager) keepPartial(ctx context.Context, layer *data.Layer, session *sessions.Session, report persistence.SaveReport, cause error) error {
	if report.Reloaded == nil {
		return cause
	}

	blob, err := snapshot.Serialize(report.Reloaded)
	if err != nil {
		return errors.Wrap(err, "fail to snapshot reloaded content")
	}

	session.Snapshot = blob
	err = m.deps.Sessions.SaveSession(ctx, session)
	if err != nil {
		return errors.Wrap(err, "fail to update edit session")
	}

	hclog.FromContext(ctx).Debug("Partial save, session kept open", "layer", layer.Handle)
	return cause
}

// interruptedAfterSave handles a save whose reload was cut by cancellation. The layer stays in
// edit mode. When everything was saved the working set becomes the new baseline so it is not
// pushed twice.
func (m *Manager) interruptedAfterSave(ctx context.Context, layer *data.Layer, session *sessions.Session, outcome persistence.SaveOutcome, warning error) error {
	if outcome.Kind == persistence.OutcomeAllSaved {
		blob, err := snapshot.Serialize(layer.Features)
		if err == nil {
			session.Snapshot = blob
			err = m.deps.Sessions.SaveSession(ctx, session)
		}

		if err != nil {
			hclog.FromContext(ctx).Warn("Fail to move session baseline", "layer", layer.Handle, "err", err)
		}
	}

	return warning
}

func (m *Manager) discard(ctx context.Context, layer *data.Layer) (bool, error) {
	logger := hclog.FromContext(ctx)
	h := layer.Handle

	session, before, err := m.loadSession(ctx, layer)
	if err != nil {
		return false, err
	}

	if layer.Backend == data.BackendExternal {
		adapter, cleanup, err := m.adapterFor(ctx, layer, session.ID)
		defer cleanup()
		if err != nil {
			return false, err
		}

		reloadCtx, cancel := m.withTimeout(ctx)
		defer cancel()

		_, err = adapter.Reload(reloadCtx)
		if err != nil {
			warning := &persistence.ConsistencyWarning{Layer: layer.Name, Err: err}
			logger.Warn("Fail to reload before discard", "layer", h, "err", err)
			m.deps.Prompt.Warn(warning.Error())
		}
	}

	err = m.deps.Repository.ReplaceFeatures(ctx, h, before)
	if err != nil {
		return false, errors.Wrap(err, "fail to restore snapshot")
	}

	logger.Debug("Edits discarded", "layer", h)

	return true, m.closeEditing(ctx, h)
}

func (m *Manager) release(ctx context.Context, layer *data.Layer, owner string) {
	err := persistence.ReleaseSession(ctx, layer, owner)
	if err != nil {
		hclog.FromContext(ctx).Warn("Fail to release layer", "layer", layer.Handle, "err", err)
	}
}

func (m *Manager) closeEditing(ctx context.Context, h data.Handle) error {
	logger := hclog.FromContext(ctx)

	layer, err := m.deps.Repository.Layer(h)
	if err != nil {
		return err
	}

	if !layer.InteractiveEditing {
		return nil
	}

	session, err := m.deps.Sessions.GetSession(ctx, h)
	if err != nil && !errors.Is(err, sessions.ErrSessionNotFound) {
		return errors.Wrap(err, "fail to get edit session")
	}

	err = m.deps.Repository.LeaveEditing(ctx, h)
	if err != nil {
		return errors.Wrap(err, "fail to leave edit mode")
	}

	if session != nil {
		m.release(ctx, layer, session.ID)
	} else {
		logger.Debug("Closing layer without a session", "layer", h)
	}

	err = m.deps.History.ClearForLayer(ctx, h)
	if err != nil {
		return errors.Wrap(err, "fail to clear history")
	}

	err = m.deps.Sessions.DeleteSession(ctx, h)
	if err != nil {
		return errors.Wrap(err, "fail to delete edit session")
	}

	if m.deps.Editor != nil {
		m.deps.Editor.Clear()
	}

	logger.Debug("Edit session closed", "layer", h)
	m.deps.Metrics.RecordTransition(metrics.TransitionClose)
	m.deps.Bus.BroadcastEditingChanged(h)
	m.deps.Bus.BroadcastRedraw(notify.LayerScope(h))

	if m.deps.Editor != nil && !m.deps.Repository.AnyEditing() {
		m.deps.Editor.ResetTool()
	}

	return nil
}
