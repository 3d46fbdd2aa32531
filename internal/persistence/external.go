package persistence

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/vectorsource"
	"github.com/ergomake/layeredit/pkg/data"
)

type external struct {
	layer        *data.Layer
	driver       vectorsource.Driver
	summaryLimit int
}

var _ Adapter = &external{}

func newExternal(layer *data.Layer, deps Deps) *external {
	return &external{layer: layer, driver: deps.Driver, summaryLimit: deps.ErrorSummaryLimit}
}

func (e *external) Kind() data.BackendKind {
	return data.BackendExternal
}

func (e *external) CheckEditable(ctx context.Context) error {
	if e.layer.DynamicLoading {
		return &CapabilityError{Layer: e.layer.Name, Reason: DynamicLoadingDisallowed}
	}

	err := e.driver.Writable(ctx)
	if err != nil {
		return &CapabilityError{Layer: e.layer.Name, Reason: EditingNotSupported, Err: err}
	}

	return nil
}

// Save pushes the change set and reloads whenever the source may have changed.
func (e *external) Save(ctx context.Context, req SaveRequest) SaveReport {
	logger := hclog.FromContext(ctx)

	if len(req.Changes) == 0 {
		return SaveReport{Outcome: NoChanges(), layer: e.layer.Name}
	}

	result, err := e.driver.Apply(ctx, req.Changes)
	if err != nil {
		logger.Warn("Fail to push changes", "layer", e.layer.Handle, "saved", result.Saved, "err", err)
		return failed(e.layer.Name, errors.Wrapf(err, "fail to push changes to %s", e.driver.Source()))
	}

	for _, fe := range result.Errors {
		logger.Warn("Feature not saved", "layer", e.layer.Handle, "index", fe.FeatureIndex, "feature", fe.FeatureID, "message", fe.Message)
	}

	report := SaveReport{
		Outcome: Classify(result.Saved, len(req.Changes), result.Errors),
		layer:   e.layer.Name,
		summary: summarize(e.summaryLimit, result.Errors),
	}

	if report.Outcome.Kind == OutcomeFailed {
		report.err = errors.New(report.summary)
	}

	if result.Saved == 0 && len(result.Errors) == 0 {
		return report
	}

	fs, err := e.Reload(ctx)
	if err != nil {
		logger.Warn("Fail to reload after save", "layer", e.layer.Handle, "err", err)
		report.Warning = &ConsistencyWarning{Layer: e.layer.Name, Err: err}
		return report
	}

	report.Reloaded = fs
	return report
}

func (e *external) Reload(ctx context.Context) (*data.FeatureSet, error) {
	hclog.FromContext(ctx).Debug("Reloading external source", "layer", e.layer.Handle, "source", e.driver.Source())

	fs, err := e.driver.Load(ctx)
	return fs, errors.Wrapf(err, "fail to reload %s", e.driver.Source())
}

func (e *external) Release(context.Context) error {
	return nil
}
