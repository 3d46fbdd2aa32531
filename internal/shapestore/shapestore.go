// Package shapestore keeps the features of a file-backed layer in a single shape file that is
// edited in place. A sidecar lock file records which edit session owns the shape file.
package shapestore

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/ergomake/layeredit/internal/storage"
	"github.com/ergomake/layeredit/pkg/data"
)

const CURRENT_SHAPE_FILE_VERSION = 1

var (
	ErrLocked   = errors.New("shape file is locked by another editor")
	ErrNotFound = errors.New("shape file not found")
	ErrExists   = errors.New("shape file already exists")
)

type version struct {
	Version uint `json:"version"`
}

type shapeFileModel struct {
	Version  uint             `json:"version"`
	Features *data.FeatureSet `json:"features"`
}

func (m *shapeFileModel) UnmarshalJSON(b []byte) error {
	var v version
	err := json.Unmarshal(b, &v)
	if err != nil {
		return err
	}

	if v.Version > CURRENT_SHAPE_FILE_VERSION {
		return errors.New("shape file was created using a newer version of layeredit")
	}

	if v.Version != CURRENT_SHAPE_FILE_VERSION {
		return errors.Errorf("got unexpected version %d of shape file", v.Version)
	}

	type plain shapeFileModel
	return json.Unmarshal(b, (*plain)(m))
}

type Store struct {
	path string
	file storage.FileLike
}

func Open(path string) *Store {
	return &Store{path: path, file: storage.NewFileStorage(path)}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) LockPath() string {
	return s.path + ".lock"
}

// Create writes a new shape file and fails if one is already there.
func (s *Store) Create(ctx context.Context, fs *data.FeatureSet) error {
	_, err := os.Stat(s.path)
	if err == nil {
		return errors.Wrap(ErrExists, s.path)
	}

	if !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "fail to stat %s", s.path)
	}

	return s.withLockFile(unix.LOCK_EX, func(*os.File) error {
		return s.file.Save(ctx, shapeFileModel{Version: CURRENT_SHAPE_FILE_VERSION, Features: fs})
	})
}

func (s *Store) Read(ctx context.Context) (*data.FeatureSet, error) {
	hclog.FromContext(ctx).Debug("Reading shape file", "path", s.path)

	_, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(ErrNotFound, s.path)
	}

	var model shapeFileModel
	err = s.withLockFile(unix.LOCK_SH, func(*os.File) error {
		return s.file.Load(ctx, &model)
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to read shape file")
	}

	if model.Features == nil {
		return nil, errors.Errorf("shape file %s has no features", s.path)
	}

	return model.Features, nil
}

// Write commits fs in place. The shape file must be locked by owner.
func (s *Store) Write(ctx context.Context, owner string, fs *data.FeatureSet) error {
	hclog.FromContext(ctx).Debug("Writing shape file", "path", s.path, "owner", owner)

	return s.withLockFile(unix.LOCK_EX, func(f *os.File) error {
		current, err := readOwner(f)
		if err != nil {
			return err
		}

		if current != owner {
			return errors.Wrapf(ErrLocked, "owned by %q", current)
		}

		model := shapeFileModel{Version: CURRENT_SHAPE_FILE_VERSION, Features: fs}
		return errors.Wrap(s.file.Save(ctx, model), "fail to commit shape file")
	})
}

// Lock marks the shape file as owned by owner. Locking again with the same owner is a no-op.
func (s *Store) Lock(owner string) error {
	if owner == "" {
		return errors.New("lock owner cannot be empty")
	}

	return s.withLockFile(unix.LOCK_EX, func(f *os.File) error {
		current, err := readOwner(f)
		if err != nil {
			return err
		}

		if current != "" && current != owner {
			return errors.Wrapf(ErrLocked, "owned by %q", current)
		}

		return writeOwner(f, owner)
	})
}

// Unlock releases the lock if owner holds it.
func (s *Store) Unlock(owner string) error {
	return s.withLockFile(unix.LOCK_EX, func(f *os.File) error {
		current, err := readOwner(f)
		if err != nil {
			return err
		}

		if current != owner {
			return nil
		}

		return writeOwner(f, "")
	})
}

// Owner returns the session holding the lock, empty when the file is free.
func (s *Store) Owner() (string, error) {
	var owner string
	err := s.withLockFile(unix.LOCK_SH, func(f *os.File) error {
		o, err := readOwner(f)
		owner = o
		return err
	})

	return owner, err
}

func (s *Store) withLockFile(how int, fn func(f *os.File) error) error {
	f, err := os.OpenFile(s.LockPath(), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return errors.Wrapf(err, "fail to open lock file %s", s.LockPath())
	}
	defer f.Close()

	fd := int(f.Fd())
	err = unix.Flock(fd, how)
	if err != nil {
		return errors.Wrapf(err, "fail to flock %s", s.LockPath())
	}
	defer unix.Flock(fd, unix.LOCK_UN)

	return fn(f)
}

func readOwner(f *os.File) (string, error) {
	_, err := f.Seek(0, io.SeekStart)
	if err != nil {
		return "", errors.Wrap(err, "fail to seek lock file")
	}

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", errors.Wrap(err, "fail to read lock file")
	}

	return strings.TrimSpace(string(raw)), nil
}

func writeOwner(f *os.File, owner string) error {
	err := f.Truncate(0)
	if err != nil {
		return errors.Wrap(err, "fail to truncate lock file")
	}

	_, err = f.WriteAt([]byte(owner), 0)
	return errors.Wrap(err, "fail to write lock file")
}
