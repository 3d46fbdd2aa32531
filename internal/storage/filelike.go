package storage

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

type FileLike interface {
	Load(ctx context.Context, v any) error
	Save(ctx context.Context, v any) error
}

var ErrInvalidLocation = errors.New("invalid storage location")

// ForLocation returns the storage for a local path or an s3://bucket/key url.
func ForLocation(location, region string) (FileLike, error) {
	if !strings.HasPrefix(location, "s3://") {
		if location == "" {
			return nil, errors.Wrap(ErrInvalidLocation, "empty path")
		}

		return NewFileStorage(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidLocation, "%s: %s", location, err)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, errors.Wrapf(ErrInvalidLocation, "%s: expected s3://bucket/key", location)
	}

	return NewS3Backend(u.Host, key, region)
}
