package slackapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))

	err := Classify(errors.New("invalid_auth"))
	assert.True(t, IsAuthError(err))

	err = Classify(errors.New("token_revoked"))
	assert.True(t, IsAuthError(err))

	// Rate limits and connectivity problems are transient.
	err = Classify(errors.New("ratelimited"))
	assert.False(t, IsAuthError(err))

	err = Classify(errors.New("dial tcp: network is unreachable"))
	assert.False(t, IsAuthError(err))
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New("xoxp-test", slack.OptionAPIURL(server.URL+"/"))
}

func TestFetchStatus(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "users.profile.get")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "profile": {"display_name": "dev", "status_text": "en remoto", "status_emoji": ":house_with_garden:"}}`))
	})

	status, err := client.FetchStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ":house_with_garden:", status.Glyph)
	assert.Equal(t, "en remoto", status.Text)
	assert.Equal(t, "dev", status.DisplayName)
}

func TestFetchStatus_AuthError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "error": "invalid_auth"}`))
	})

	_, err := client.FetchStatus(context.Background())
	assert.True(t, IsAuthError(err))
}

func TestPublishStatus(t *testing.T) {
	var gotProfile string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "users.profile.set")
		gotProfile = r.FormValue("profile")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "profile": {}}`))
	})

	err := client.PublishStatus(context.Background(), "en tienda", ":mercadona:", 0)
	require.NoError(t, err)
	assert.Contains(t, gotProfile, "en tienda")
	assert.Contains(t, gotProfile, ":mercadona:")
}
