package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

var (
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrNotFound     = errors.New("resource not found")
)

type HTTPClient struct {
	token   string
	client  *http.Client
	BaseURL string
}

// NewHTTPClient signs in to the feature service and keeps the returned token.
func NewHTTPClient(ctx context.Context, baseURL, email, password string) (*HTTPClient, error) {
	c := NewAnonymousHTTPClient(baseURL)

	var body struct {
		Token string `json:"token"`
	}
	err := c.JSON(ctx, http.MethodPost, "/v1/auth/signin", map[string]string{"email": email, "password": password}, &body)
	if err != nil {
		return nil, errors.Wrap(err, "fail to sign in to feature service")
	}

	c.token = body.Token
	return c, nil
}

func NewAnonymousHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{client: http.DefaultClient, BaseURL: baseURL}
}

func (c *HTTPClient) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", c.BaseURL, path), body)
	if err != nil {
		return nil, errors.Wrap(err, "fail to create http request to feature service")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return req, nil
}

// JSON sends in as the request body, when not nil, and decodes the response into out, when not nil.
func (c *HTTPClient) JSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "fail to encode request payload")
		}

		body = bytes.NewReader(raw)
	}

	req, err := c.NewRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hclog.FromContext(ctx).Debug("Calling feature service", "method", method, "path", path)

	res, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fail to perform http request to feature service")
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrapf(ErrInvalidCreds, "status code %d", res.StatusCode)
	case http.StatusNotFound:
		return errors.Wrapf(ErrNotFound, "%s %s", method, path)
	default:
		return errors.Errorf("HTTP request to %s failed with status code %d", req.URL, res.StatusCode)
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(res.Body).Decode(out)
	return errors.Wrap(err, "fail to decode JSON response")
}
