package oauthcb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Exchanger swaps an OAuth authorization code for a user token.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (token, userID string, err error)
}

// SlackExchanger performs the server-side oauth.v2.access call.
type SlackExchanger struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	HTTPClient   *http.Client
}

func (x *SlackExchanger) Exchange(_ context.Context, code string) (string, string, error) {
	httpClient := x.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := slack.GetOAuthV2Response(httpClient, x.ClientID, x.ClientSecret, code, x.RedirectURI)
	if err != nil {
		return "", "", fmt.Errorf("oauth exchange failed: %w", err)
	}
	return resp.AuthedUser.AccessToken, resp.AuthedUser.ID, nil
}

// Handler receives the provider's redirect, exchanges the code and forwards
// the token to the frontend, which hands it off to the desktop client.
type Handler struct {
	exchanger   Exchanger
	frontendURL string
	logger      *zap.Logger
}

func NewHandler(exchanger Exchanger, frontendURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		exchanger:   exchanger,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/slack/oauth/callback", h.callback)
	return r
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Warn("callback without code", zap.String("request_id", requestID))
		http.Error(w, "missing 'code' parameter", http.StatusBadRequest)
		return
	}

	token, userID, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("exchange failed", zap.String("request_id", requestID), zap.Error(err))
		http.Error(w, fmt.Sprintf("slack exchange failed: %v", err), http.StatusBadRequest)
		return
	}

	redirect := fmt.Sprintf("%s/redirect.html?token=%s&user=%s",
		h.frontendURL, url.QueryEscape(token), url.QueryEscape(userID))
	h.logger.Info("token issued", zap.String("request_id", requestID), zap.String("user", userID))
	http.Redirect(w, r, redirect, http.StatusFound)
}
