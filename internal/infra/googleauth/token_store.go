package googleauth

import (
	"context"

	"golang.org/x/oauth2"
)

//go:generate mockgen -source=token_store.go -destination=token_store_mock.go -package=googleauth

// TokenStore persists the OAuth token granted to the service.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
}
