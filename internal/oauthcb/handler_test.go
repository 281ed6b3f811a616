package oauthcb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExchanger struct {
	token  string
	userID string
	err    error

	gotCode string
}

func (f *fakeExchanger) Exchange(_ context.Context, code string) (string, string, error) {
	f.gotCode = code
	return f.token, f.userID, f.err
}

func doCallback(t *testing.T, exchanger Exchanger, target string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(exchanger, "https://mossu.example.com/", nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func TestCallback_MissingCode(t *testing.T) {
	rec := doCallback(t, &fakeExchanger{}, "/slack/oauth/callback")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "code")
}

func TestCallback_ExchangeFailure(t *testing.T) {
	exchanger := &fakeExchanger{err: errors.New("invalid_code")}

	rec := doCallback(t, exchanger, "/slack/oauth/callback?code=abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_code")
	assert.Equal(t, "abc", exchanger.gotCode)
}

func TestCallback_Success(t *testing.T) {
	exchanger := &fakeExchanger{token: "xoxp-1/2+3", userID: "U123"}

	rec := doCallback(t, exchanger, "/slack/oauth/callback?code=abc")

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	// Trailing slash on the frontend URL must not double up.
	assert.Equal(t, "https://mossu.example.com/redirect.html?token=xoxp-1%2F2%2B3&user=U123", location)
}
