package storage

import (
	"context"
	"encoding/json"
	"os"
	"path"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

type fileStorage struct {
	fpath string
}

var _ FileLike = &fileStorage{}

func NewFileStorage(fpath string) *fileStorage {
	return &fileStorage{fpath}
}

func (fls *fileStorage) Path() string {
	return fls.fpath
}

func (fls *fileStorage) Load(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Reading file", "path", fls.fpath)

	raw, err := os.ReadFile(fls.fpath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "fail to read %s", fls.fpath)
	}

	err = json.Unmarshal(raw, v)
	return errors.Wrapf(err, "fail to parse content of %s", fls.fpath)
}

// Save replaces the file atomically, readers never observe a partial write.
func (fls *fileStorage) Save(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Writing file", "path", fls.fpath)

	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "fail to marshal file content")
	}

	dir := path.Dir(fls.fpath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return errors.Wrapf(err, "fail to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+path.Base(fls.fpath)+".*")
	if err != nil {
		return errors.Wrap(err, "fail to create temp file")
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "fail to write temp file")
	}

	err = os.Chmod(tmp.Name(), 0644)
	if err != nil {
		return errors.Wrap(err, "fail to chmod temp file")
	}

	err = os.Rename(tmp.Name(), fls.fpath)
	return errors.Wrap(err, "fail to write file")
}
