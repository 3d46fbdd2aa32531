package snapshot

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergomake/layeredit/pkg/data"
)

func sampleFeatureSet() *data.FeatureSet {
	fs := data.NewFeatureSet(
		data.GeometryPolygon,
		data.Field{Name: "owner", Type: data.FieldString},
		data.Field{Name: "area", Type: data.FieldDouble},
	)

	fs.Features = append(fs.Features,
		&data.Feature{
			ID: "parcel-1",
			Geometry: data.Geometry{
				Type: data.GeometryPolygon,
				Parts: [][]data.Coordinate{
					{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
					{{2, 2}, {3, 2}, {3, 3}, {2, 2}},
				},
			},
			Attributes: map[string]string{"owner": "A & B <co>", "area": "99.5"},
		},
		&data.Feature{
			ID: "parcel-2",
			Geometry: data.Geometry{
				Type:  data.GeometryPolygon,
				Parts: [][]data.Coordinate{{{0.1, 0.2, 3.3}, {1e-300, math.MaxFloat64, math.Copysign(0, -1)}}},
			},
			Attributes: map[string]string{},
		},
		&data.Feature{
			ID:       "parcel-3",
			Geometry: data.Geometry{Type: data.GeometryPolygon},
		},
	)

	return fs
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		fs   *data.FeatureSet
	}{
		{name: "polygons with holes and attributes", fs: sampleFeatureSet()},
		{name: "empty feature set", fs: data.NewFeatureSet(data.GeometryPoint)},
		{name: "nil features and fields", fs: &data.FeatureSet{GeometryType: data.GeometryLineString}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			blob, err := Serialize(test.fs)
			require.NoError(t, err)

			restored, err := Deserialize(blob)
			require.NoError(t, err)

			assert.Equal(t, test.fs, restored)
			assert.True(t, test.fs.Equal(restored))
		})
	}
}

func TestRoundTripKeepsSignedZero(t *testing.T) {
	fs := sampleFeatureSet()

	blob, err := Serialize(fs)
	require.NoError(t, err)

	restored, err := Deserialize(blob)
	require.NoError(t, err)

	z := restored.Features[1].Geometry.Parts[0][1][2]
	assert.True(t, math.Signbit(z))
}

func TestSerializeIsDeterministic(t *testing.T) {
	a, err := Serialize(sampleFeatureSet())
	require.NoError(t, err)

	b, err := Serialize(sampleFeatureSet())
	require.NoError(t, err)

	assert.True(t, bytes.Equal(a, b))
}

func TestSerializeErrors(t *testing.T) {
	t.Run("nil state", func(t *testing.T) {
		_, err := Serialize(nil)
		assert.ErrorIs(t, err, ErrNilState)
	})

	t.Run("non finite coordinate", func(t *testing.T) {
		fs := sampleFeatureSet()
		fs.Features[0].Geometry.Parts[0][0][0] = math.NaN()

		_, err := Serialize(fs)
		assert.ErrorIs(t, err, ErrNonFiniteCoordinate)
	})

	t.Run("nil feature", func(t *testing.T) {
		fs := sampleFeatureSet()
		fs.Features[1] = nil

		_, err := Serialize(fs)
		assert.Error(t, err)
	})
}

func TestDeserializeErrors(t *testing.T) {
	blob, err := Serialize(sampleFeatureSet())
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := Deserialize([]byte("not a snapshot"))
		assert.Error(t, err)
	})

	t.Run("tampered content", func(t *testing.T) {
		var env envelope
		require.NoError(t, json.Unmarshal(blob, &env))

		env.Content = bytes.Replace(env.Content, []byte("parcel-1"), []byte("parcel-9"), 1)
		tampered, err := json.Marshal(env)
		require.NoError(t, err)

		_, err = Deserialize(tampered)
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("newer version", func(t *testing.T) {
		_, err := Deserialize([]byte(`{"version": 2}`))
		assert.ErrorIs(t, err, ErrNewerSnapshotVersion)
	})

	t.Run("missing version", func(t *testing.T) {
		_, err := Deserialize([]byte(`{"content": {}}`))
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})
}
