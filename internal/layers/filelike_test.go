package layers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	storageMock "github.com/ergomake/layeredit/mocks/internal_/storage"
	"github.com/ergomake/layeredit/pkg/data"
)

func TestFileLikeModelUnmarshalJSON(t *testing.T) {
	t.Run("current version", func(t *testing.T) {
		raw := `{"version": 1, "layers": [{"handle": 2, "name": "roads", "backend": "memory"}]}`

		var flm fileLikeModel
		err := json.Unmarshal([]byte(raw), &flm)
		require.NoError(t, err)

		assert.Equal(t, uint(CURRENT_FILE_LIKE_MODEL_VERSION), flm.Version)
		require.Len(t, flm.Layers, 1)
		assert.Equal(t, data.Handle(2), flm.Layers[0].Handle)
	})

	t.Run("newer version", func(t *testing.T) {
		var flm fileLikeModel
		err := json.Unmarshal([]byte(`{"version": 7}`), &flm)
		assert.ErrorContains(t, err, "newer version")
	})

	t.Run("unknown version", func(t *testing.T) {
		var flm fileLikeModel
		err := json.Unmarshal([]byte(`{"version": 0}`), &flm)
		assert.Error(t, err)
	})
}

func TestNewFileLikeBackend(t *testing.T) {
	storage := storageMock.NewFileLike(t)
	storage.EXPECT().Load(mock.Anything, mock.Anything).
		Run(func(_ context.Context, v interface{}) {
			m := v.(*fileLikeModel)
			m.Layers = []*data.Layer{{Handle: 1, Name: "roads", Backend: data.BackendMemory}}
		}).
		Return(nil)

	flb, err := NewFileLikeBackend(context.Background(), storage, "/workspace/layeredit.layers.json")
	require.NoError(t, err)

	list, err := flb.ListLayers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "roads", list[0].Name)
	assert.Equal(t, "/workspace/layeredit.layers.json", flb.Location())
}

func TestFileLikeBackend_SaveLayers(t *testing.T) {
	l1 := &data.Layer{Handle: 1, Name: "roads", Backend: data.BackendMemory}
	l2 := &data.Layer{Handle: 2, Name: "wells", Backend: data.BackendMemory}

	t.Run("saves sorted by handle", func(t *testing.T) {
		storage := storageMock.NewFileLike(t)
		storage.EXPECT().
			Save(mock.Anything, &fileLikeModel{Version: CURRENT_FILE_LIKE_MODEL_VERSION, Layers: []*data.Layer{l1, l2}}).
			Return(nil)

		flb := &fileLikeBackend{model: &fileLikeModel{Version: CURRENT_FILE_LIKE_MODEL_VERSION}, storage: storage}

		err := flb.SaveLayers(context.Background(), []*data.Layer{l2, l1})
		require.NoError(t, err)
	})

	t.Run("fails when fails to save fileLike", func(t *testing.T) {
		expectedErr := errors.New("rip")

		storage := storageMock.NewFileLike(t)
		storage.EXPECT().Save(mock.Anything, mock.Anything).Return(expectedErr)

		flb := &fileLikeBackend{model: &fileLikeModel{Version: CURRENT_FILE_LIKE_MODEL_VERSION}, storage: storage}

		err := flb.SaveLayers(context.Background(), []*data.Layer{l1})
		assert.ErrorIs(t, err, expectedErr)
	})
}
