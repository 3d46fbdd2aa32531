// Package vectorsource holds the drivers behind externally sourced layers.
package vectorsource

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/saveerrors"
	"github.com/ergomake/layeredit/pkg/data"
)

var (
	ErrReadOnly          = errors.New("source is read only")
	ErrUnsupportedSource = errors.New("unsupported vector source")
)

type ApplyResult struct {
	Saved  int                       `json:"saved"`
	Errors []saveerrors.FeatureError `json:"errors"`
}

// Driver is a connection to an external vector source.
type Driver interface {
	Source() string
	Load(ctx context.Context) (*data.FeatureSet, error)

	// Writable returns nil when the source accepts edits, otherwise the reason it does not.
	Writable(ctx context.Context) error

	// Apply pushes changes as one batch. Rejected changes are reported in the result, the error is
	// reserved for failures that stop the whole batch, and then nothing of the batch is kept.
	Apply(ctx context.Context, changes []data.Change) (ApplyResult, error)
	Close() error
}

type FeatureService struct {
	URL      string
	Email    string
	Password string
}

type Options struct {
	FeatureService *FeatureService
}

// Open connects to source, either sqlite://<path>?table=<name>[&mode=ro] or an http(s) feature
// service layer url.
func Open(ctx context.Context, source string, opts Options) (Driver, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedSource, "%s: %s", source, err)
	}

	switch u.Scheme {
	case "sqlite":
		table := u.Query().Get("table")
		if table == "" {
			return nil, errors.Wrapf(ErrUnsupportedSource, "%s: missing table", source)
		}

		path := u.Host + u.Path
		if path == "" {
			return nil, errors.Wrapf(ErrUnsupportedSource, "%s: missing database path", source)
		}

		return OpenSQLite(ctx, path, table, u.Query().Get("mode") == "ro")
	case "http", "https":
		return OpenFeatureService(ctx, source, opts.FeatureService)
	}

	return nil, errors.Wrap(ErrUnsupportedSource, source)
}

func splitLayerURL(source string) (string, string, error) {
	idx := strings.Index(source, "/v1/layers/")
	if idx < 0 {
		return "", "", errors.Wrapf(ErrUnsupportedSource, "%s: expected <service>/v1/layers/<name>", source)
	}

	name := strings.Trim(source[idx+len("/v1/layers/"):], "/")
	if name == "" || strings.Contains(name, "/") {
		return "", "", errors.Wrapf(ErrUnsupportedSource, "%s: invalid layer name", source)
	}

	return source[:idx], name, nil
}
