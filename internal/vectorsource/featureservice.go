package vectorsource

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/cloud"
	"github.com/ergomake/layeredit/internal/saveerrors"
	"github.com/ergomake/layeredit/pkg/data"
)

type featureServiceDriver struct {
	client *cloud.HTTPClient
	source string
	layer  string
}

var _ Driver = &featureServiceDriver{}

type capabilitiesResponse struct {
	Write  bool   `json:"write"`
	Reason string `json:"reason,omitempty"`
}

type changesRequest struct {
	Changes []data.Change `json:"changes"`
}

// OpenFeatureService connects to <service>/v1/layers/<name>. Credentials are used only when the
// source lives under creds.URL.
func OpenFeatureService(ctx context.Context, source string, creds *FeatureService) (*featureServiceDriver, error) {
	baseURL, layer, err := splitLayerURL(source)
	if err != nil {
		return nil, err
	}

	var client *cloud.HTTPClient
	if creds != nil && creds.URL != "" && strings.HasPrefix(source, strings.TrimSuffix(creds.URL, "/")) {
		client, err = cloud.NewHTTPClient(ctx, baseURL, creds.Email, creds.Password)
		if err != nil {
			return nil, errors.Wrap(err, "fail to authenticate against feature service")
		}
	} else {
		client = cloud.NewAnonymousHTTPClient(baseURL)
	}

	return &featureServiceDriver{client: client, source: source, layer: layer}, nil
}

func (d *featureServiceDriver) Source() string {
	return d.source
}

func (d *featureServiceDriver) path(suffix string) string {
	return fmt.Sprintf("/v1/layers/%s%s", d.layer, suffix)
}

func (d *featureServiceDriver) Load(ctx context.Context) (*data.FeatureSet, error) {
	var fs data.FeatureSet
	err := d.client.JSON(ctx, http.MethodGet, d.path(""), nil, &fs)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to load layer %s", d.layer)
	}

	if fs.Features == nil {
		fs.Features = []*data.Feature{}
	}

	return &fs, nil
}

func (d *featureServiceDriver) Writable(ctx context.Context) error {
	var caps capabilitiesResponse
	err := d.client.JSON(ctx, http.MethodGet, d.path("/capabilities"), nil, &caps)
	if err != nil {
		return errors.Wrapf(err, "fail to get capabilities of layer %s", d.layer)
	}

	if !caps.Write {
		reason := caps.Reason
		if reason == "" {
			reason = "layer does not accept edits"
		}

		return errors.Wrap(ErrReadOnly, reason)
	}

	return nil
}

func (d *featureServiceDriver) Apply(ctx context.Context, changes []data.Change) (ApplyResult, error) {
	var result ApplyResult
	err := d.client.JSON(ctx, http.MethodPost, d.path("/changes"), changesRequest{Changes: changes}, &result)
	if err != nil {
		return ApplyResult{}, errors.Wrapf(err, "fail to push changes to layer %s", d.layer)
	}

	if result.Errors == nil {
		result.Errors = []saveerrors.FeatureError{}
	}

	return result, nil
}

func (d *featureServiceDriver) Close() error {
	return nil
}
