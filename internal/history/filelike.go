package history

import (
	"context"
	"encoding/json"
	"time"

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
	Version uint    `json:"version"`
	Entries []Entry `json:"entries"`
}

func (f *fileLikeModel) UnmarshalJSON(b []byte) error {
	var v version
	err := json.Unmarshal(b, &v)
	if err != nil {
		return err
	}

	if v.Version > CURRENT_FILE_LIKE_MODEL_VERSION {
		return errors.New("history file was created using a newer version of layeredit")
	}

	if v.Version != CURRENT_FILE_LIKE_MODEL_VERSION {
		return errors.Errorf("got unexpected version %d of history file", v.Version)
	}

	type plain fileLikeModel
	return json.Unmarshal(b, (*plain)(f))
}

type fileLikeLog struct {
	model   *fileLikeModel
	storage storage.FileLike
	now     func() time.Time
}

var _ Log = &fileLikeLog{}

func NewFileLikeLog(ctx context.Context, storage storage.FileLike) (*fileLikeLog, error) {
	fhistory := fileLikeModel{
		Version: CURRENT_FILE_LIKE_MODEL_VERSION,
		Entries: []Entry{},
	}

	err := storage.Load(ctx, &fhistory)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read file")
	}

	return &fileLikeLog{model: &fhistory, storage: storage, now: time.Now}, nil
}

func (fl *fileLikeLog) Append(ctx context.Context, h data.Handle, change data.Change) error {
	hclog.FromContext(ctx).Debug("Appending to history", "layer", h, "kind", change.Kind)

	seq := 1
	for _, e := range fl.model.Entries {
		if e.Handle == h && e.Seq >= seq {
			seq = e.Seq + 1
		}
	}

	fl.model.Entries = append(fl.model.Entries, Entry{Seq: seq, Handle: h, At: fl.now().UTC(), Change: change})

	return fl.storage.Save(ctx, fl.model)
}

func (fl *fileLikeLog) ForLayer(ctx context.Context, h data.Handle) ([]Entry, error) {
	hclog.FromContext(ctx).Debug("Reading history", "layer", h)

	result := make([]Entry, 0)
	for _, e := range fl.model.Entries {
		if e.Handle == h {
			result = append(result, e)
		}
	}

	return result, nil
}

func (fl *fileLikeLog) ClearForLayer(ctx context.Context, h data.Handle) error {
	hclog.FromContext(ctx).Debug("Clearing history", "layer", h)

	next := []Entry{}
	for _, e := range fl.model.Entries {
		if e.Handle != h {
			next = append(next, e)
		}
	}

	fl.model.Entries = next

	return fl.storage.Save(ctx, fl.model)
}
