package persistence

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ergomake/layeredit/pkg/data"
)

const tracerName = "github.com/ergomake/layeredit/internal/persistence"

type tracedAdapter struct {
	inner  Adapter
	layer  *data.Layer
	tracer trace.Tracer
}

func newTracedAdapter(inner Adapter, layer *data.Layer, provider trace.TracerProvider) *tracedAdapter {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return &tracedAdapter{inner: inner, layer: layer, tracer: provider.Tracer(tracerName)}
}

var _ Adapter = &tracedAdapter{}

func (t *tracedAdapter) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("layer.backend", string(t.layer.Backend)),
		attribute.String("layer.name", t.layer.Name),
		attribute.Int("layer.handle", int(t.layer.Handle)),
	)

	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (t *tracedAdapter) Kind() data.BackendKind {
	return t.inner.Kind()
}

func (t *tracedAdapter) CheckEditable(ctx context.Context) error {
	ctx, span := t.start(ctx, "persistence.CheckEditable")
	defer span.End()

	err := t.inner.CheckEditable(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (t *tracedAdapter) Save(ctx context.Context, req SaveRequest) SaveReport {
	ctx, span := t.start(ctx, "persistence.Save", attribute.Int("changes.pending", len(req.Changes)))
	defer span.End()

	report := t.inner.Save(ctx, req)
	span.SetAttributes(
		attribute.String("save.outcome", string(report.Outcome.Kind)),
		attribute.Int("save.saved", report.Outcome.SavedCount),
		attribute.Int("save.errors", len(report.Outcome.Errors)),
	)

	if report.Outcome.Kind == OutcomeFailed {
		span.SetStatus(codes.Error, report.Outcome.Reason)
	}

	if report.Warning != nil {
		span.RecordError(report.Warning)
	}

	return report
}

func (t *tracedAdapter) Reload(ctx context.Context) (*data.FeatureSet, error) {
	ctx, span := t.start(ctx, "persistence.Reload")
	defer span.End()

	fs, err := t.inner.Reload(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return fs, err
}

func (t *tracedAdapter) Release(ctx context.Context) error {
	return t.inner.Release(ctx)
}
