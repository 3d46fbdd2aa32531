package sessions

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/storage"
	"github.com/ergomake/layeredit/pkg/data"
)

type version struct {
	Version uint `json:"version"`
}

const CURRENT_FILE_LIKE_MODEL_VERSION = 1

type fileLikeModel struct {
	Version  uint       `json:"version"`
	Sessions []*Session `json:"sessions"`
}

func (f *fileLikeModel) UnmarshalJSON(b []byte) error {
	var v version
	err := json.Unmarshal(b, &v)
	if err != nil {
		return err
	}

	if v.Version > CURRENT_FILE_LIKE_MODEL_VERSION {
		return errors.New("sessions file was created using a newer version of layeredit")
	}

	if v.Version != CURRENT_FILE_LIKE_MODEL_VERSION {
		return errors.Errorf("got unexpected version %d of sessions file", v.Version)
	}

	type plain fileLikeModel
	return json.Unmarshal(b, (*plain)(f))
}

type fileLikeBackend struct {
	model   *fileLikeModel
	storage storage.FileLike
}

var _ Backend = &fileLikeBackend{}

func NewFileLikeBackend(ctx context.Context, storage storage.FileLike) (*fileLikeBackend, error) {
	fsessions := fileLikeModel{
		Version:  CURRENT_FILE_LIKE_MODEL_VERSION,
		Sessions: []*Session{},
	}

	err := storage.Load(ctx, &fsessions)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read file")
	}

	return &fileLikeBackend{model: &fsessions, storage: storage}, nil
}

func (flb *fileLikeBackend) GetSession(ctx context.Context, h data.Handle) (*Session, error) {
	hclog.FromContext(ctx).Debug("Getting edit session", "layer", h)

	for _, s := range flb.model.Sessions {
		if s.Handle == h {
			return s, nil
		}
	}

	return nil, errors.Wrapf(ErrSessionNotFound, "no edit session for layer %s", h)
}

// SaveSession replaces the session of the same layer, a layer has at most one session.
func (flb *fileLikeBackend) SaveSession(ctx context.Context, session *Session) error {
	hclog.FromContext(ctx).Debug("Saving edit session", "layer", session.Handle, "session", session.ID)

	next := []*Session{}
	for _, s := range flb.model.Sessions {
		if s.Handle != session.Handle {
			next = append(next, s)
		}
	}

	next = append(next, session)

	flb.model.Sessions = next

	return flb.storage.Save(ctx, flb.model)
}

func (flb *fileLikeBackend) DeleteSession(ctx context.Context, h data.Handle) error {
	hclog.FromContext(ctx).Debug("Deleting edit session", "layer", h)

	next := []*Session{}
	for _, s := range flb.model.Sessions {
		if s.Handle != h {
			next = append(next, s)
		}
	}

	flb.model.Sessions = next

	return flb.storage.Save(ctx, flb.model)
}

func (flb *fileLikeBackend) ListSessions(ctx context.Context) ([]*Session, error) {
	hclog.FromContext(ctx).Debug("Listing edit sessions")

	return flb.model.Sessions, nil
}
