package layers

import (
	"context"

	"github.com/ergomake/layeredit/pkg/data"
)

type inMemoryBackend struct {
	layers []*data.Layer
}

var _ Backend = &inMemoryBackend{}

func NewInMemoryBackend(list []*data.Layer) *inMemoryBackend {
	return &inMemoryBackend{layers: list}
}

func (mb *inMemoryBackend) ListLayers(context.Context) ([]*data.Layer, error) {
	return mb.layers, nil
}

func (mb *inMemoryBackend) SaveLayers(_ context.Context, layers []*data.Layer) error {
	mb.layers = layers
	return nil
}

func (mb *inMemoryBackend) Location() string {
	return "memory"
}
