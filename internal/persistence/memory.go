package persistence

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/storage"
	"github.com/ergomake/layeredit/pkg/data"
)

const CURRENT_LAYER_FILE_VERSION = 1

var ErrNoTargetPath = errors.New("no target path")

type version struct {
	Version uint `json:"version"`
}

// layerFileModel is what an in-memory layer is saved as.
type layerFileModel struct {
	Version  uint             `json:"version"`
	Name     string           `json:"name"`
	Features *data.FeatureSet `json:"features"`
}

func (m *layerFileModel) UnmarshalJSON(b []byte) error {
	var v version
	err := json.Unmarshal(b, &v)
	if err != nil {
		return err
	}

	if v.Version > CURRENT_LAYER_FILE_VERSION {
		return errors.New("layer file was created using a newer version of layeredit")
	}

	type plain layerFileModel
	return json.Unmarshal(b, (*plain)(m))
}

type inMemory struct {
	layer  *data.Layer
	dialog FileDialogService
	region string
}

var _ Adapter = &inMemory{}

func newInMemory(layer *data.Layer, deps Deps) *inMemory {
	return &inMemory{layer: layer, dialog: deps.Dialog, region: deps.Region}
}

func (m *inMemory) Kind() data.BackendKind {
	return data.BackendMemory
}

func (m *inMemory) CheckEditable(context.Context) error {
	return nil
}

func (m *inMemory) Save(ctx context.Context, req SaveRequest) SaveReport {
	logger := hclog.FromContext(ctx)

	target := m.layer.Filename
	if target != "" && len(req.Changes) == 0 {
		return SaveReport{Outcome: NoChanges(), layer: m.layer.Name}
	}

	var chosen string
	if target == "" {
		if m.dialog == nil {
			return failed(m.layer.Name, ErrNoTargetPath)
		}

		path, ok := m.dialog.RequestSavePath(ctx, SAVE_FILE_FILTER, m.layer.Name)
		if !ok || path == "" {
			logger.Debug("No save target for in memory layer", "layer", m.layer.Handle)
			return failed(m.layer.Name, ErrNoTargetPath)
		}

		target = path
		chosen = path
	}

	blob, err := storage.ForLocation(target, m.region)
	if err != nil {
		return failed(m.layer.Name, errors.Wrap(err, "fail to resolve save target"))
	}

	logger.Debug("Saving in memory layer", "layer", m.layer.Handle, "target", target)
	err = blob.Save(ctx, layerFileModel{
		Version:  CURRENT_LAYER_FILE_VERSION,
		Name:     m.layer.Name,
		Features: req.Working,
	})
	if err != nil {
		return failed(m.layer.Name, errors.Wrapf(err, "fail to write %s", target))
	}

	return SaveReport{
		Outcome:  AllSaved(len(req.Working.Features)),
		Filename: chosen,
		layer:    m.layer.Name,
	}
}

func (m *inMemory) Reload(context.Context) (*data.FeatureSet, error) {
	return nil, nil
}

func (m *inMemory) Release(context.Context) error {
	return nil
}

// LoadLayerFile reads a layer previously saved from memory.
func LoadLayerFile(ctx context.Context, location, region string) (string, *data.FeatureSet, error) {
	blob, err := storage.ForLocation(location, region)
	if err != nil {
		return "", nil, err
	}

	var model layerFileModel
	err = blob.Load(ctx, &model)
	if err != nil {
		return "", nil, errors.Wrapf(err, "fail to load layer file %s", location)
	}

	if model.Features == nil {
		return "", nil, errors.Errorf("layer file %s not found or empty", location)
	}

	return model.Name, model.Features, nil
}
