package slackapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/slack-go/slack"
)

// ErrAuth marks failures where the remote API rejected the token. Callers
// must clear the token and re-run the authorization flow; every other error
// is treated as transient and retried on the next signal.
var ErrAuth = errors.New("slack rejected the token")

// Status is the remote profile status as currently published.
type Status struct {
	Glyph       string
	Text        string
	DisplayName string
}

// Client performs the remote read/write calls. No retry policy here; the
// resolver owns retries and backoff.
type Client interface {
	// FetchStatus reads the authed user's current profile status.
	FetchStatus(ctx context.Context) (Status, error)
	// PublishStatus writes a custom status. expiry is epoch seconds, 0
	// meaning the status never expires.
	PublishStatus(ctx context.Context, text, glyph string, expiry int64) error
}

// Factory builds a Client bound to a token. The resolver constructs a fresh
// client whenever the token changes.
type Factory func(token string) Client

type APIClient struct {
	api *slack.Client
}

func New(token string, opts ...slack.Option) *APIClient {
	return &APIClient{api: slack.New(token, opts...)}
}

func (c *APIClient) FetchStatus(ctx context.Context) (Status, error) {
	profile, err := c.api.GetUserProfileContext(ctx, &slack.GetUserProfileParameters{})
	if err != nil {
		return Status{}, Classify(err)
	}
	return Status{
		Glyph:       profile.StatusEmoji,
		Text:        profile.StatusText,
		DisplayName: profile.DisplayName,
	}, nil
}

func (c *APIClient) PublishStatus(ctx context.Context, text, glyph string, expiry int64) error {
	if err := c.api.SetUserCustomStatusContext(ctx, text, glyph, expiry); err != nil {
		return Classify(err)
	}
	return nil
}

// Error codes that mean the token itself is no good. Everything else
// (rate limits, connectivity, 5xx) is transient.
var authErrorCodes = map[string]bool{
	"invalid_auth":     true,
	"not_authed":       true,
	"token_revoked":    true,
	"token_expired":    true,
	"account_inactive": true,
	"no_permission":    true,
	"missing_scope":    true,
}

// Classify wraps err with ErrAuth when the Slack error code indicates a
// rejected token.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if authErrorCodes[err.Error()] {
		return fmt.Errorf("%w: %s", ErrAuth, err.Error())
	}
	return err
}

// IsAuthError reports whether err means the token must be cleared.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}
