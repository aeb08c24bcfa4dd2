package ops

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

func TestAuthenticateStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/accesstoken", r.URL.Path)

		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "my-id", id)
		assert.Equal(t, "my-secret", secret)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"abc123","token_type":"BearerToken","expires_in":"1200"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	require.NoError(t, c.Authenticate(context.Background(), "my-id", "my-secret"))
	assert.Equal(t, "abc123", c.token)
}

func TestAuthenticateRejectedCredentialsAreFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := newTestClient(srv).Authenticate(context.Background(), "id", "bad")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeAuthFailed))
	assert.True(t, errors.IsFatal(err))
}

func TestAuthenticateBadTokenBody(t *testing.T) {
	cases := map[string]string{
		"not json":      `<html>maintenance</html>`,
		"missing token": `{"token_type":"BearerToken"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			err := newTestClient(srv).Authenticate(context.Background(), "id", "secret")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeAuthFailed))
		})
	}
}
