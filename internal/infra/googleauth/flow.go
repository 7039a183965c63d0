package googleauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/KasumiMercury/policy-hub/internal/observability/tracing"
)

var ErrMissingCode = errors.New("missing authorization code")

// Flow runs the three-legged OAuth consent for the service account holder
// and hands out clients authorized with the stored token.
type Flow struct {
	oauth *oauth2.Config
	store TokenStore
}

func NewFlow(oauth *oauth2.Config, store TokenStore) *Flow {
	return &Flow{
		oauth: oauth,
		store: store,
	}
}

// AuthCodeURL asks for offline access so a refresh token is issued.
func (f *Flow) AuthCodeURL(state string) string {
	return f.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (f *Flow) Exchange(ctx context.Context, code string) (err error) {
	if code == "" {
		return ErrMissingCode
	}

	ctx, span := tracing.StartExternalAPISpan(ctx, "oauth_exchange", "oauth2.googleapis.com")
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	token, err := f.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if err := f.store.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to store oauth token: %w", err)
	}

	slog.InfoContext(ctx, "oauth token stored",
		slog.String("event", "oauth.token.stored"),
		slog.Bool("has_refresh_token", token.RefreshToken != ""),
	)

	return nil
}

// HTTPClient returns a client that refreshes the stored token as needed and
// writes refreshed tokens back to the store.
func (f *Flow) HTTPClient(ctx context.Context) (*http.Client, error) {
	token, err := f.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	src := &persistingTokenSource{
		ctx:   context.WithoutCancel(ctx),
		base:  f.oauth.TokenSource(ctx, token),
		store: f.store,
		last:  token.AccessToken,
	}

	return oauth2.NewClient(ctx, src), nil
}

type persistingTokenSource struct {
	ctx   context.Context
	base  oauth2.TokenSource
	store TokenStore

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token.AccessToken != s.last {
		if err := s.store.Save(s.ctx, token); err != nil {
			slog.WarnContext(s.ctx, "failed to persist refreshed oauth token",
				slog.String("event", "oauth.token.persist.fail"),
				slog.String("error", err.Error()),
			)
		} else {
			s.last = token.AccessToken
		}
	}

	return token, nil
}
