package cli

import (
	"context"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// startTracing sends the spans of the command to path as JSON. The returned func flushes them.
func startTracing(ctx context.Context, path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to open trace file %s", path)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f), stdouttrace.WithPrettyPrint())
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "fail to create trace exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return func() {
		logger := hclog.FromContext(ctx)
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("Fail to flush traces", "path", path, "err", err)
		}

		if err := f.Close(); err != nil {
			logger.Warn("Fail to close trace file", "path", path, "err", err)
		}
	}, nil
}
