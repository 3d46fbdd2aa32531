// Package layers is the registry of layers known to a workspace together with their working
// feature sets.
package layers

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/pkg/data"
)

var ErrInvalidHandle = errors.New("invalid layer handle")

// Backend persists the registry.
type Backend interface {
	ListLayers(ctx context.Context) ([]*data.Layer, error)
	SaveLayers(ctx context.Context, layers []*data.Layer) error
	Location() string
}
