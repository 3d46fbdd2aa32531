package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/signin":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["password"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"token":"tkn"}`))
		case "/v1/whoami":
			assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"email":"me@example.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	t.Run("invalid credentials", func(t *testing.T) {
		_, err := NewHTTPClient(ctx, srv.URL, "me@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCreds)
	})

	t.Run("authenticated requests", func(t *testing.T) {
		c, err := NewHTTPClient(ctx, srv.URL, "me@example.com", "secret")
		require.NoError(t, err)

		var out map[string]string
		err = c.JSON(ctx, http.MethodGet, "/v1/whoami", nil, &out)
		require.NoError(t, err)
		assert.Equal(t, "me@example.com", out["email"])

		err = c.JSON(ctx, http.MethodGet, "/v1/missing", nil, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
