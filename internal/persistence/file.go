package persistence

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/shapestore"
	"github.com/ergomake/layeredit/pkg/data"
)

type fileBacked struct {
	layer *data.Layer
	store *shapestore.Store
	owner string
}

var _ Adapter = &fileBacked{}

func newFileBacked(layer *data.Layer, deps Deps) *fileBacked {
	return &fileBacked{layer: layer, store: shapestore.Open(layer.Filename), owner: deps.Owner}
}

func (f *fileBacked) Kind() data.BackendKind {
	return data.BackendFile
}

// CheckEditable takes the shape file lock for the session.
func (f *fileBacked) CheckEditable(ctx context.Context) error {
	hclog.FromContext(ctx).Debug("Locking shape file", "path", f.store.Path(), "owner", f.owner)

	err := f.store.Lock(f.owner)
	if errors.Is(err, shapestore.ErrLocked) {
		return &CapabilityError{Layer: f.layer.Name, Reason: Locked, Err: err}
	}

	return errors.Wrapf(err, "fail to lock %s", f.store.Path())
}

func (f *fileBacked) Save(ctx context.Context, req SaveRequest) SaveReport {
	if len(req.Changes) == 0 {
		return SaveReport{Outcome: NoChanges(), layer: f.layer.Name}
	}

	err := f.store.Write(ctx, f.owner, req.Working)
	if err != nil {
		return failed(f.layer.Name, err)
	}

	return SaveReport{Outcome: AllSaved(len(req.Changes)), layer: f.layer.Name}
}

func (f *fileBacked) Reload(ctx context.Context) (*data.FeatureSet, error) {
	return f.store.Read(ctx)
}

func (f *fileBacked) Release(ctx context.Context) error {
	hclog.FromContext(ctx).Debug("Unlocking shape file", "path", f.store.Path(), "owner", f.owner)

	return errors.Wrapf(f.store.Unlock(f.owner), "fail to unlock %s", f.store.Path())
}
