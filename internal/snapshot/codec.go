// Package snapshot serializes full feature sets into opaque blobs used to roll back discarded edits.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/pkg/data"
)

const CURRENT_SNAPSHOT_VERSION = 1

var (
	ErrNilState             = errors.New("nil feature set")
	ErrNonFiniteCoordinate  = errors.New("geometry has non finite coordinates")
	ErrChecksumMismatch     = errors.New("snapshot checksum mismatch")
	ErrUnsupportedVersion   = errors.New("unsupported snapshot version")
	ErrNewerSnapshotVersion = errors.New("snapshot was created using a newer version of layeredit")
)

type version struct {
	Version uint `json:"version"`
}

type envelope struct {
	Version  uint            `json:"version"`
	Checksum string          `json:"sha256"`
	Content  json.RawMessage `json:"content"`
}

// Serialize encodes fs. It does no I/O.
func Serialize(fs *data.FeatureSet) ([]byte, error) {
	if fs == nil {
		return nil, ErrNilState
	}

	for i, f := range fs.Features {
		if f == nil {
			return nil, errors.Errorf("feature %d is nil", i)
		}

		if !f.Geometry.Finite() {
			return nil, errors.Wrapf(ErrNonFiniteCoordinate, "feature %d (%s)", i, f.ID)
		}
	}

	content, err := json.Marshal(fs)
	if err != nil {
		return nil, errors.Wrap(err, "fail to marshal feature set")
	}

	sum := sha256.Sum256(content)
	blob, err := json.Marshal(envelope{
		Version:  CURRENT_SNAPSHOT_VERSION,
		Checksum: hex.EncodeToString(sum[:]),
		Content:  content,
	})

	return blob, errors.Wrap(err, "fail to marshal snapshot envelope")
}

// Deserialize decodes a blob produced by Serialize.
func Deserialize(blob []byte) (*data.FeatureSet, error) {
	var v version
	err := json.Unmarshal(blob, &v)
	if err != nil {
		return nil, errors.Wrap(err, "fail to decode snapshot")
	}

	if v.Version > CURRENT_SNAPSHOT_VERSION {
		return nil, ErrNewerSnapshotVersion
	}

	if v.Version != CURRENT_SNAPSHOT_VERSION {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "got version %d", v.Version)
	}

	var env envelope
	err = json.Unmarshal(blob, &env)
	if err != nil {
		return nil, errors.Wrap(err, "fail to decode snapshot envelope")
	}

	sum := sha256.Sum256(env.Content)
	if hex.EncodeToString(sum[:]) != env.Checksum {
		return nil, ErrChecksumMismatch
	}

	var fs data.FeatureSet
	err = json.Unmarshal(env.Content, &fs)
	if err != nil {
		return nil, errors.Wrap(err, "fail to decode snapshot content")
	}

	return &fs, nil
}
