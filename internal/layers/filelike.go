package layers

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/storage"
	"github.com/ergomake/layeredit/pkg/data"
)

type version struct {
	Version uint `json:"version"`
}

const CURRENT_FILE_LIKE_MODEL_VERSION = 1

type fileLikeModel struct {
	Version uint          `json:"version"`
	Layers  []*data.Layer `json:"layers"`
}

func (f *fileLikeModel) UnmarshalJSON(b []byte) error {
	var v version
	err := json.Unmarshal(b, &v)
	if err != nil {
		return err
	}

	if v.Version > CURRENT_FILE_LIKE_MODEL_VERSION {
		return errors.New("layers file was created using a newer version of layeredit")
	}

	if v.Version != CURRENT_FILE_LIKE_MODEL_VERSION {
		return errors.Errorf("got unexpected version %d of layers file", v.Version)
	}

	type plain fileLikeModel
	return json.Unmarshal(b, (*plain)(f))
}

type fileLikeBackend struct {
	model    *fileLikeModel
	storage  storage.FileLike
	location string
}

var _ Backend = &fileLikeBackend{}

func NewFileLikeBackend(ctx context.Context, storage storage.FileLike, location string) (*fileLikeBackend, error) {
	flayers := fileLikeModel{
		Version: CURRENT_FILE_LIKE_MODEL_VERSION,
		Layers:  []*data.Layer{},
	}

	err := storage.Load(ctx, &flayers)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read file")
	}

	return &fileLikeBackend{model: &flayers, storage: storage, location: location}, nil
}

func (flb *fileLikeBackend) ListLayers(ctx context.Context) ([]*data.Layer, error) {
	hclog.FromContext(ctx).Debug("Listing layers")

	return flb.model.Layers, nil
}

func (flb *fileLikeBackend) SaveLayers(ctx context.Context, layers []*data.Layer) error {
	hclog.FromContext(ctx).Debug("Saving layers", "count", len(layers))

	next := make([]*data.Layer, len(layers))
	copy(next, layers)
	sort.Slice(next, func(i, j int) bool { return next[i].Handle < next[j].Handle })

	flb.model.Layers = next

	return flb.storage.Save(ctx, flb.model)
}

func (flb *fileLikeBackend) Location() string {
	return flb.location
}
