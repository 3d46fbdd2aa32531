// Package persistence saves, reloads and gates editing of layers, one adapter per backend kind.
package persistence

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"github.com/ergomake/layeredit/internal/saveerrors"
	"github.com/ergomake/layeredit/internal/vectorsource"
	"github.com/ergomake/layeredit/pkg/data"
)

const SAVE_FILE_FILTER = "Layer files (*.json)|*.json"

var ErrMissingDriver = errors.New("external layer has no driver")

type FileDialogService interface {
	// RequestSavePath returns false when the operator cancels.
	RequestSavePath(ctx context.Context, filter, currentName string) (string, bool)
}

type Deps struct {
	Dialog FileDialogService

	// Driver must be set for external layers.
	Driver vectorsource.Driver

	// Owner identifies the edit session, shape file locks are taken in its name.
	Owner string

	// Region is used for s3:// save targets.
	Region string

	ErrorSummaryLimit int

	// TracerProvider defaults to the global otel provider.
	TracerProvider trace.TracerProvider
}

type SaveRequest struct {
	Working *data.FeatureSet
	Changes []data.Change
}

type SaveReport struct {
	Outcome SaveOutcome

	// Filename is the save target chosen during the save, empty if it did not change.
	Filename string

	// Reloaded is the backend content read back after the save.
	Reloaded *data.FeatureSet

	Warning *ConsistencyWarning

	layer   string
	summary string
	err     error
}

// Err describes a Failed or PartialSaved outcome, nil otherwise.
func (r SaveReport) Err() error {
	switch r.Outcome.Kind {
	case OutcomeFailed:
		return &IOError{Layer: r.layer, Reason: r.Outcome.Reason, Err: r.err}
	case OutcomePartialSaved:
		return &PartialPersistError{
			Layer:      r.layer,
			SavedCount: r.Outcome.SavedCount,
			Errors:     r.Outcome.Errors,
			Summary:    r.summary,
		}
	}

	return nil
}

type Adapter interface {
	Kind() data.BackendKind
	CheckEditable(ctx context.Context) error
	Save(ctx context.Context, req SaveRequest) SaveReport
	Reload(ctx context.Context) (*data.FeatureSet, error)

	// Release gives back whatever CheckEditable acquired.
	Release(ctx context.Context) error
}

func New(layer *data.Layer, deps Deps) (Adapter, error) {
	var adapter Adapter
	switch layer.Backend {
	case data.BackendMemory:
		adapter = newInMemory(layer, deps)
	case data.BackendFile:
		if layer.Filename == "" {
			return nil, errors.Errorf("file layer %s has no filename", layer.Name)
		}

		adapter = newFileBacked(layer, deps)
	case data.BackendExternal:
		if deps.Driver == nil {
			return nil, errors.Wrap(ErrMissingDriver, layer.Name)
		}

		adapter = newExternal(layer, deps)
	default:
		return nil, errors.Errorf("unknown backend kind %q", layer.Backend)
	}

	return newTracedAdapter(adapter, layer, deps.TracerProvider), nil
}

func failed(layer string, err error) SaveReport {
	return SaveReport{Outcome: Failed(err.Error()), layer: layer, err: err}
}

func summarize(limit int, errs []saveerrors.FeatureError) string {
	agg := saveerrors.NewAggregator(limit)
	for _, fe := range errs {
		agg.Add(fe)
	}

	return agg.Summary()
}

// ReleaseSession gives back what an edit session of layer acquired, without needing a live
// adapter. Only file layers hold anything between processes.
func ReleaseSession(ctx context.Context, layer *data.Layer, owner string) error {
	switch layer.Backend {
	case data.BackendMemory, data.BackendExternal:
		return nil
	case data.BackendFile:
		if layer.Filename == "" {
			return nil
		}

		return newFileBacked(layer, Deps{Owner: owner}).Release(ctx)
	}

	return errors.Errorf("unknown backend kind %q", layer.Backend)
}
