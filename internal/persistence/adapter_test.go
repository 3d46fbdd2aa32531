package persistence

import (
	"context"
	"path"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	vectorsourceMock "github.com/ergomake/layeredit/mocks/internal_/vectorsource"

	"github.com/ergomake/layeredit/internal/saveerrors"
	"github.com/ergomake/layeredit/internal/shapestore"
	"github.com/ergomake/layeredit/internal/vectorsource"
	"github.com/ergomake/layeredit/pkg/data"
)

type fakeDialog struct {
	path  string
	ok    bool
	calls int
}

func (d *fakeDialog) RequestSavePath(_ context.Context, _, _ string) (string, bool) {
	d.calls++
	return d.path, d.ok
}

func pointSet(ids ...string) *data.FeatureSet {
	fs := data.NewFeatureSet(data.GeometryPoint)
	for i, id := range ids {
		fs.Features = append(fs.Features, &data.Feature{
			ID:       id,
			Geometry: data.Geometry{Type: data.GeometryPoint, Parts: [][]data.Coordinate{{{float64(i), 0}}}},
		})
	}

	return fs
}

func inserts(fs *data.FeatureSet) []data.Change {
	return data.Diff(data.NewFeatureSet(fs.GeometryType), fs)
}

func TestNew(t *testing.T) {
	t.Run("dispatches on backend kind", func(t *testing.T) {
		drv := vectorsourceMock.NewDriver(t)

		for _, kind := range []data.BackendKind{data.BackendMemory, data.BackendFile, data.BackendExternal} {
			a, err := New(&data.Layer{Name: "l", Backend: kind, Filename: "/tmp/l"}, Deps{Driver: drv})
			require.NoError(t, err)
			assert.Equal(t, kind, a.Kind())
		}
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		_, err := New(&data.Layer{Name: "l", Backend: "ogr"}, Deps{})
		assert.Error(t, err)
	})

	t.Run("external needs a driver", func(t *testing.T) {
		_, err := New(&data.Layer{Name: "l", Backend: data.BackendExternal}, Deps{})
		assert.ErrorIs(t, err, ErrMissingDriver)
	})

	t.Run("file needs a filename", func(t *testing.T) {
		_, err := New(&data.Layer{Name: "l", Backend: data.BackendFile}, Deps{})
		assert.Error(t, err)
	})
}

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	working := pointSet("a", "b")

	t.Run("always editable", func(t *testing.T) {
		a, err := New(&data.Layer{Name: "wells", Backend: data.BackendMemory}, Deps{})
		require.NoError(t, err)
		assert.NoError(t, a.CheckEditable(ctx))
	})

	t.Run("fails without a target path", func(t *testing.T) {
		dialog := &fakeDialog{ok: false}
		a, err := New(&data.Layer{Name: "wells", Backend: data.BackendMemory}, Deps{Dialog: dialog})
		require.NoError(t, err)

		report := a.Save(ctx, SaveRequest{Working: working, Changes: inserts(working)})
		assert.Equal(t, Failed("no target path"), report.Outcome)
		assert.Equal(t, 1, dialog.calls)
		assert.Empty(t, report.Filename)

		var ioErr *IOError
		require.ErrorAs(t, report.Err(), &ioErr)
		assert.ErrorIs(t, report.Err(), ErrNoTargetPath)
	})

	t.Run("writes to the requested path", func(t *testing.T) {
		target := path.Join(t.TempDir(), "wells.json")
		dialog := &fakeDialog{path: target, ok: true}
		a, err := New(&data.Layer{Name: "wells", Backend: data.BackendMemory}, Deps{Dialog: dialog})
		require.NoError(t, err)

		report := a.Save(ctx, SaveRequest{Working: working, Changes: inserts(working)})
		assert.Equal(t, AllSaved(2), report.Outcome)
		assert.Equal(t, target, report.Filename)
		assert.NoError(t, report.Err())

		name, fs, err := LoadLayerFile(ctx, target, "")
		require.NoError(t, err)
		assert.Equal(t, "wells", name)
		assert.True(t, working.Equal(fs))
	})

	t.Run("does not ask again once it has a filename", func(t *testing.T) {
		target := path.Join(t.TempDir(), "wells.json")
		dialog := &fakeDialog{}
		a, err := New(&data.Layer{Name: "wells", Backend: data.BackendMemory, Filename: target}, Deps{Dialog: dialog})
		require.NoError(t, err)

		report := a.Save(ctx, SaveRequest{Working: working, Changes: inserts(working)})
		assert.Equal(t, AllSaved(2), report.Outcome)
		assert.Empty(t, report.Filename)

		report = a.Save(ctx, SaveRequest{Working: working})
		assert.Equal(t, NoChanges(), report.Outcome)
		assert.Zero(t, dialog.calls)
	})
}

func TestFileBacked(t *testing.T) {
	ctx := context.Background()
	fpath := path.Join(t.TempDir(), "parcels.lfshape")
	require.NoError(t, shapestore.Open(fpath).Create(ctx, pointSet("a")))

	layer := &data.Layer{Name: "parcels", Backend: data.BackendFile, Filename: fpath}

	first, err := New(layer, Deps{Owner: "session-1"})
	require.NoError(t, err)
	second, err := New(layer, Deps{Owner: "session-2"})
	require.NoError(t, err)

	require.NoError(t, first.CheckEditable(ctx))

	err = second.CheckEditable(ctx)
	var capErr *CapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, Locked, capErr.Reason)

	working := pointSet("a", "b")
	report := first.Save(ctx, SaveRequest{Working: working, Changes: data.Diff(pointSet("a"), working)})
	assert.Equal(t, AllSaved(1), report.Outcome)

	report = second.Save(ctx, SaveRequest{Working: pointSet(), Changes: data.Diff(working, pointSet())})
	assert.Equal(t, OutcomeFailed, report.Outcome.Kind)

	fs, err := first.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, working.Equal(fs))

	require.NoError(t, first.Release(ctx))
	assert.NoError(t, second.CheckEditable(ctx))
}

func TestExternalCheckEditable(t *testing.T) {
	ctx := context.Background()

	t.Run("dynamic sources cannot be edited", func(t *testing.T) {
		drv := vectorsourceMock.NewDriver(t)
		a, err := New(&data.Layer{Name: "roads", Backend: data.BackendExternal, DynamicLoading: true}, Deps{Driver: drv})
		require.NoError(t, err)

		var capErr *CapabilityError
		require.ErrorAs(t, a.CheckEditable(ctx), &capErr)
		assert.Equal(t, DynamicLoadingDisallowed, capErr.Reason)
	})

	t.Run("read only drivers cannot be edited", func(t *testing.T) {
		drv := vectorsourceMock.NewDriver(t)
		drv.EXPECT().Writable(mock.Anything).Return(errors.Wrap(vectorsource.ErrReadOnly, "mode=ro")).Once()

		a, err := New(&data.Layer{Name: "roads", Backend: data.BackendExternal}, Deps{Driver: drv})
		require.NoError(t, err)

		err = a.CheckEditable(ctx)
		var capErr *CapabilityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, EditingNotSupported, capErr.Reason)
		assert.ErrorIs(t, err, vectorsource.ErrReadOnly)
	})
}

func TestExternalSave(t *testing.T) {
	ctx := context.Background()
	layer := &data.Layer{Name: "roads", Backend: data.BackendExternal}
	working := pointSet("a", "b", "c", "d", "e")
	changes := inserts(working)

	newAdapter := func(t *testing.T) (*vectorsourceMock.Driver, Adapter) {
		drv := vectorsourceMock.NewDriver(t)
		drv.EXPECT().Source().Return("sqlite:///data/roads.db?table=roads").Maybe()

		a, err := New(layer, Deps{Driver: drv})
		require.NoError(t, err)
		return drv, a
	}

	t.Run("all saved reloads once", func(t *testing.T) {
		drv, a := newAdapter(t)
		drv.EXPECT().Apply(mock.Anything, changes).Return(vectorsource.ApplyResult{Saved: 5}, nil).Once()
		drv.EXPECT().Load(mock.Anything).Return(working, nil).Once()

		report := a.Save(ctx, SaveRequest{Working: working, Changes: changes})
		assert.Equal(t, AllSaved(5), report.Outcome)
		assert.Same(t, working, report.Reloaded)
		assert.Nil(t, report.Warning)
		assert.NoError(t, report.Err())
	})

	t.Run("partial save", func(t *testing.T) {
		drv, a := newAdapter(t)
		errs := []saveerrors.FeatureError{
			{FeatureIndex: 1, FeatureID: "b", Message: "e1"},
			{FeatureIndex: 3, FeatureID: "d", Message: "e2"},
		}
		drv.EXPECT().Apply(mock.Anything, changes).Return(vectorsource.ApplyResult{Saved: 3, Errors: errs}, nil).Once()
		drv.EXPECT().Load(mock.Anything).Return(pointSet("a", "c", "e"), nil).Once()

		report := a.Save(ctx, SaveRequest{Working: working, Changes: changes})
		assert.Equal(t, PartialSaved(3, errs), report.Outcome)

		var partial *PartialPersistError
		require.ErrorAs(t, report.Err(), &partial)
		assert.Equal(t, 3, partial.SavedCount)
		assert.Equal(t, errs, partial.Errors)
		assert.Contains(t, partial.Summary, "2 features failed to save")
	})

	t.Run("reload failure is a consistency warning", func(t *testing.T) {
		drv, a := newAdapter(t)
		drv.EXPECT().Apply(mock.Anything, changes).Return(vectorsource.ApplyResult{Saved: 5}, nil).Once()
		drv.EXPECT().Load(mock.Anything).Return(nil, assert.AnError).Once()

		report := a.Save(ctx, SaveRequest{Working: working, Changes: changes})
		assert.Equal(t, AllSaved(5), report.Outcome)
		assert.Nil(t, report.Reloaded)
		require.NotNil(t, report.Warning)
		assert.ErrorIs(t, report.Warning, assert.AnError)
	})

	t.Run("batch failure does not reload", func(t *testing.T) {
		drv, a := newAdapter(t)
		drv.EXPECT().Apply(mock.Anything, changes).Return(vectorsource.ApplyResult{}, assert.AnError).Once()

		report := a.Save(ctx, SaveRequest{Working: working, Changes: changes})
		assert.Equal(t, OutcomeFailed, report.Outcome.Kind)

		var ioErr *IOError
		require.ErrorAs(t, report.Err(), &ioErr)
		assert.ErrorIs(t, report.Err(), assert.AnError)
	})

	t.Run("nothing pending", func(t *testing.T) {
		_, a := newAdapter(t)

		report := a.Save(ctx, SaveRequest{Working: working})
		assert.Equal(t, NoChanges(), report.Outcome)
	})
}

func TestTracing(t *testing.T) {
	ctx := context.Background()
	layer := &data.Layer{Handle: 4, Name: "roads", Backend: data.BackendExternal}
	working := pointSet("a", "b")
	changes := inserts(working)

	newAdapter := func(t *testing.T) (*vectorsourceMock.Driver, Adapter, *tracetest.SpanRecorder) {
		recorder := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		t.Cleanup(func() { tp.Shutdown(context.Background()) })

		drv := vectorsourceMock.NewDriver(t)
		drv.EXPECT().Source().Return("sqlite:///data/roads.db?table=roads").Maybe()

		a, err := New(layer, Deps{Driver: drv, TracerProvider: tp})
		require.NoError(t, err)
		return drv, a, recorder
	}

	attrs := func(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
		m := map[attribute.Key]attribute.Value{}
		for _, kv := range span.Attributes() {
			m[kv.Key] = kv.Value
		}
		return m
	}

	t.Run("save records the outcome", func(t *testing.T) {
		drv, a, recorder := newAdapter(t)
		drv.EXPECT().Apply(mock.Anything, changes).Return(vectorsource.ApplyResult{Saved: 2}, nil).Once()
		drv.EXPECT().Load(mock.Anything).Return(working, nil).Once()

		a.Save(ctx, SaveRequest{Working: working, Changes: changes})

		spans := recorder.Ended()
		require.Len(t, spans, 1)

		save := spans[0]
		assert.Equal(t, "persistence.Save", save.Name())
		assert.Equal(t, codes.Unset, save.Status().Code)

		a2 := attrs(save)
		assert.Equal(t, "all-saved", a2["save.outcome"].AsString())
		assert.Equal(t, int64(2), a2["save.saved"].AsInt64())
		assert.Equal(t, int64(2), a2["changes.pending"].AsInt64())
		assert.Equal(t, "external", a2["layer.backend"].AsString())
		assert.Equal(t, "roads", a2["layer.name"].AsString())
		assert.Equal(t, int64(4), a2["layer.handle"].AsInt64())
	})

	t.Run("failed save sets an error status", func(t *testing.T) {
		drv, a, recorder := newAdapter(t)
		drv.EXPECT().Apply(mock.Anything, changes).Return(vectorsource.ApplyResult{}, assert.AnError).Once()

		report := a.Save(ctx, SaveRequest{Working: working, Changes: changes})
		require.Equal(t, OutcomeFailed, report.Outcome.Kind)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, report.Outcome.Reason, spans[0].Status().Description)
		assert.Equal(t, "failed", attrs(spans[0])["save.outcome"].AsString())
	})

	t.Run("capability errors are recorded", func(t *testing.T) {
		drv, a, recorder := newAdapter(t)
		drv.EXPECT().Writable(mock.Anything).Return(vectorsource.ErrReadOnly).Once()

		err := a.CheckEditable(ctx)
		require.Error(t, err)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "persistence.CheckEditable", spans[0].Name())
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		require.NotEmpty(t, spans[0].Events())
		assert.Equal(t, "exception", spans[0].Events()[0].Name)
	})
}
