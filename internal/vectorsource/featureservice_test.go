package vectorsource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergomake/layeredit/internal/saveerrors"
	"github.com/ergomake/layeredit/pkg/data"
)

func newFeatureService(t *testing.T, writable bool) *httptest.Server {
	t.Helper()

	fs := data.NewFeatureSet(data.GeometryLineString)
	fs.Features = append(fs.Features, road("r1", 0))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/signin":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tkn"})
		case "/v1/layers/roads":
			_ = json.NewEncoder(w).Encode(fs)
		case "/v1/layers/roads/capabilities":
			_ = json.NewEncoder(w).Encode(capabilitiesResponse{Write: writable, Reason: "layer is archived"})
		case "/v1/layers/roads/changes":
			assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))

			var req changesRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			res := ApplyResult{Saved: len(req.Changes) - 1, Errors: []saveerrors.FeatureError{
				{FeatureIndex: req.Changes[0].Index, FeatureID: req.Changes[0].Feature.ID, Message: "rejected"},
			}}
			_ = json.NewEncoder(w).Encode(res)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestFeatureServiceDriver(t *testing.T) {
	ctx := context.Background()
	srv := newFeatureService(t, true)
	creds := &FeatureService{URL: srv.URL, Email: "me@example.com", Password: "secret"}

	drv, err := Open(ctx, srv.URL+"/v1/layers/roads", Options{FeatureService: creds})
	require.NoError(t, err)
	defer drv.Close()

	require.NoError(t, drv.Writable(ctx))

	fs, err := drv.Load(ctx)
	require.NoError(t, err)
	require.Len(t, fs.Features, 1)
	assert.Equal(t, "r1", fs.Features[0].ID)

	result, err := drv.Apply(ctx, []data.Change{
		{Kind: data.ChangeInsert, Index: 1, Feature: road("r2", 1)},
		{Kind: data.ChangeInsert, Index: 2, Feature: road("r3", 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, []saveerrors.FeatureError{{FeatureIndex: 1, FeatureID: "r2", Message: "rejected"}}, result.Errors)
}

func TestFeatureServiceReadOnly(t *testing.T) {
	ctx := context.Background()
	srv := newFeatureService(t, false)

	drv, err := Open(ctx, srv.URL+"/v1/layers/roads", Options{})
	require.NoError(t, err)

	err = drv.Writable(ctx)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorContains(t, err, "layer is archived")
}

func TestOpenRejectsUnknownSources(t *testing.T) {
	ctx := context.Background()

	for _, source := range []string{
		"ogr:///data/roads.shp",
		"sqlite:///data/roads.db",
		"https://features.example.com/roads",
	} {
		t.Run(source, func(t *testing.T) {
			_, err := Open(ctx, source, Options{})
			assert.ErrorIs(t, err, ErrUnsupportedSource)
		})
	}
}
