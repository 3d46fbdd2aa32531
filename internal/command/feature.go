package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/editing"
	"github.com/ergomake/layeredit/internal/layers"
	"github.com/ergomake/layeredit/pkg/data"
)

var ErrFeatureNotFound = errors.New("feature not found")

// ParseParts decodes coordinates given as JSON, e.g. [[[0,0],[1,1]]] for a line with one part.
func ParseParts(raw string) ([][]data.Coordinate, error) {
	var parts [][]data.Coordinate
	err := json.Unmarshal([]byte(raw), &parts)
	if err != nil {
		return nil, errors.Wrap(err, "fail to parse coordinates, expected a JSON array of parts")
	}

	return parts, nil
}

type featureCommand struct {
	manager *editing.Manager
	repo    *layers.Repository
	out     io.Writer
}

func NewFeature(ws *Workspace, manager *editing.Manager, out io.Writer) *featureCommand {
	return &featureCommand{manager: manager, repo: ws.Repository, out: out}
}

func (c *featureCommand) Add(ctx context.Context, h data.Handle, parts [][]data.Coordinate, attributes map[string]string) (string, error) {
	fs, ok := c.repo.GetFeatureSet(h)
	if !ok {
		return "", errors.Wrapf(layers.ErrInvalidHandle, "layer %s", h)
	}

	f := data.NewFeature(data.Geometry{Type: fs.GeometryType, Parts: parts}, attributes)

	err := c.manager.RecordEdit(ctx, h, data.Change{Kind: data.ChangeInsert, Feature: f})
	if err != nil {
		return "", err
	}

	fmt.Fprintf(c.out, "Feature %s added to layer %s.\n", f.ID, h)
	return f.ID, nil
}

// Update replaces the geometry when parts is not nil and merges attributes into the feature.
func (c *featureCommand) Update(ctx context.Context, h data.Handle, id string, parts [][]data.Coordinate, attributes map[string]string) error {
	f, err := c.find(h, id)
	if err != nil {
		return err
	}

	if parts != nil {
		f.Geometry.Parts = parts
	}

	if f.Attributes == nil && len(attributes) > 0 {
		f.Attributes = make(map[string]string, len(attributes))
	}
	for k, v := range attributes {
		f.Attributes[k] = v
	}

	err = c.manager.RecordEdit(ctx, h, data.Change{Kind: data.ChangeUpdate, Feature: f})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Feature %s updated.\n", id)
	return nil
}

func (c *featureCommand) Delete(ctx context.Context, h data.Handle, id string) error {
	f, err := c.find(h, id)
	if err != nil {
		return err
	}

	err = c.manager.RecordEdit(ctx, h, data.Change{Kind: data.ChangeDelete, Feature: f})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Feature %s deleted.\n", id)
	return nil
}

func (c *featureCommand) find(h data.Handle, id string) (*data.Feature, error) {
	fs, ok := c.repo.GetFeatureSet(h)
	if !ok {
		return nil, errors.Wrapf(layers.ErrInvalidHandle, "layer %s", h)
	}

	i := fs.IndexOf(id)
	if i < 0 {
		return nil, errors.Wrapf(ErrFeatureNotFound, "feature %s in layer %s", id, h)
	}

	return fs.Features[i], nil
}
