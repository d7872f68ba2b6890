package tmdb

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyServer(t *testing.T, valid string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != valid {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key","success":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func scriptedInput(lines ...string) func() (string, error) {
	return func() (string, error) {
		if len(lines) == 0 {
			return "", errors.New("no more input")
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
}

func newTestFlow(baseURL string, lines ...string) (*AuthFlow, *bytes.Buffer) {
	var out bytes.Buffer
	f := NewAuthFlow(Options{BaseURL: baseURL, RequestsPerSecond: 1000, Burst: 100}, nil)
	f.out = &out
	f.readSecret = scriptedInput(lines...)
	return f, &out
}

func TestAuthFlow_AcceptsValidKey(t *testing.T) {
	srv := newKeyServer(t, "good")
	f, out := newTestFlow(srv.URL, "  ", "bad", "good\n")

	key, err := f.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "good", key)
	assert.Contains(t, out.String(), "cannot be empty")
	assert.Contains(t, out.String(), "rejected")
	assert.NotContains(t, out.String(), "good", "the key is never echoed")
}

func TestAuthFlow_GivesUpAfterRepeatedRejections(t *testing.T) {
	srv := newKeyServer(t, "good")
	f, _ := newTestFlow(srv.URL, "a", "b", "c", "good")

	_, err := f.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestAuthFlow_NetworkFailure(t *testing.T) {
	srv := newKeyServer(t, "good")
	srv.Close()
	f, _ := newTestFlow(srv.URL, "good")

	_, err := f.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestAuthFlow_InputError(t *testing.T) {
	f, _ := newTestFlow("http://127.0.0.1:1")

	_, err := f.Run(context.Background())
	assert.ErrorContains(t, err, "failed to read API key")
}
