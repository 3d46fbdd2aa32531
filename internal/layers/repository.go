package layers

import (
	"context"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/vectorsource"
	"github.com/ergomake/layeredit/pkg/data"
)

type DriverOpener func(ctx context.Context, source string) (vectorsource.Driver, error)

// Repository owns the layers. Every mutation is written through to the backend.
//
// Readers get copies. A reader running while a save is in flight sees the pre-save working set
// until ReplaceFeatures swaps in the reloaded one.
type Repository struct {
	mu      sync.RWMutex
	backend Backend
	layers  map[data.Handle]*data.Layer
	next    data.Handle
	open    DriverOpener
}

func NewRepository(ctx context.Context, backend Backend, open DriverOpener) (*Repository, error) {
	list, err := backend.ListLayers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fail to list layers")
	}

	r := &Repository{
		backend: backend,
		layers:  make(map[data.Handle]*data.Layer, len(list)),
		next:    1,
		open:    open,
	}

	for _, l := range list {
		r.layers[l.Handle] = l
		if l.Handle >= r.next {
			r.next = l.Handle + 1
		}
	}

	return r, nil
}

func (r *Repository) get(h data.Handle) (*data.Layer, error) {
	l, ok := r.layers[h]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidHandle, "layer %s", h)
	}

	return l, nil
}

// Layer returns a copy of the layer registered under h.
func (r *Repository) Layer(h data.Handle) (*data.Layer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, err := r.get(h)
	if err != nil {
		return nil, err
	}

	clone := *l
	clone.Features = l.Features.Clone()
	return &clone, nil
}

func (r *Repository) List() []*data.Layer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*data.Layer, 0, len(r.layers))
	for _, l := range r.layers {
		clone := *l
		clone.Features = l.Features.Clone()
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Handle < result[j].Handle })
	return result
}

func (r *Repository) GetFeatureSet(h data.Handle) (*data.FeatureSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.layers[h]
	if !ok || l.Features == nil {
		return nil, false
	}

	return l.Features.Clone(), true
}

// GetVectorLayer opens the driver of an external layer. The caller closes it.
func (r *Repository) GetVectorLayer(ctx context.Context, h data.Handle) (vectorsource.Driver, bool, error) {
	r.mu.RLock()
	l, err := r.get(h)
	var source string
	var external bool
	if err == nil {
		source = l.Source
		external = l.Backend == data.BackendExternal
	}
	r.mu.RUnlock()

	if err != nil {
		return nil, false, err
	}

	if !external {
		return nil, false, nil
	}

	if r.open == nil {
		return nil, false, errors.Errorf("no driver opener configured for layer %s", h)
	}

	drv, err := r.open(ctx, source)
	if err != nil {
		return nil, false, errors.Wrapf(err, "fail to open source of layer %s", h)
	}

	return drv, true, nil
}

func (r *Repository) MetadataByHandle(h data.Handle) (data.Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, err := r.get(h)
	if err != nil {
		return data.Metadata{}, err
	}

	return l.Metadata(), nil
}

func (r *Repository) AnyEditing() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.layers {
		if l.InteractiveEditing {
			return true
		}
	}

	return false
}

// AddLayer registers l under a fresh handle. Handles are never reused.
func (r *Repository) AddLayer(ctx context.Context, l *data.Layer) (data.Handle, error) {
	if !l.Backend.Valid() {
		return 0, errors.Errorf("invalid backend kind %q", l.Backend)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *l
	clone.Handle = r.next
	clone.Features = l.Features.Clone()
	if clone.Features == nil {
		clone.Features = data.NewFeatureSet(data.GeometryPoint)
	}

	r.layers[clone.Handle] = &clone
	err := r.persist(ctx)
	if err != nil {
		delete(r.layers, clone.Handle)
		return 0, err
	}

	r.next++
	hclog.FromContext(ctx).Debug("Layer added", "layer", clone.Handle, "name", clone.Name, "backend", clone.Backend)

	return clone.Handle, nil
}

func (r *Repository) SetInteractiveEditing(ctx context.Context, h data.Handle, editing bool) error {
	return r.update(ctx, h, func(l *data.Layer) { l.InteractiveEditing = editing })
}

// LeaveEditing clears the editing and dirty flags in one update.
func (r *Repository) LeaveEditing(ctx context.Context, h data.Handle) error {
	return r.update(ctx, h, func(l *data.Layer) {
		l.InteractiveEditing = false
		l.Dirty = false
	})
}

func (r *Repository) SetFilename(ctx context.Context, h data.Handle, filename string) error {
	return r.update(ctx, h, func(l *data.Layer) { l.Filename = filename })
}

// ReplaceFeatures swaps the working feature set atomically.
func (r *Repository) ReplaceFeatures(ctx context.Context, h data.Handle, fs *data.FeatureSet) error {
	if fs == nil {
		return errors.New("feature set cannot be nil")
	}

	clone := fs.Clone()
	return r.update(ctx, h, func(l *data.Layer) { l.Features = clone })
}

// ReplaceWorking swaps the working feature set and sets the dirty flag in one update.
func (r *Repository) ReplaceWorking(ctx context.Context, h data.Handle, fs *data.FeatureSet, dirty bool) error {
	if fs == nil {
		return errors.New("feature set cannot be nil")
	}

	clone := fs.Clone()
	return r.update(ctx, h, func(l *data.Layer) {
		l.Features = clone
		l.Dirty = dirty
	})
}

func (r *Repository) update(ctx context.Context, h data.Handle, fn func(l *data.Layer)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, err := r.get(h)
	if err != nil {
		return err
	}

	prev := *l
	fn(l)

	err = r.persist(ctx)
	if err != nil {
		*l = prev
		return err
	}

	return nil
}

func (r *Repository) persist(ctx context.Context) error {
	list := make([]*data.Layer, 0, len(r.layers))
	for _, l := range r.layers {
		list = append(list, l)
	}

	return errors.Wrap(r.backend.SaveLayers(ctx, list), "fail to save layers")
}
