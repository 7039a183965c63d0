package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

type tokenRecord struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
	SavedAt      time.Time `json:"saved_at"`
}

// Store keeps the single OAuth token used for Drive uploads under one
// Redis key. The token has no TTL; it is refreshed in place.
type Store struct {
	client *redis.Client
	key    string
}

func NewStore(client *redis.Client, key string) *Store {
	return &Store{
		client: client,
		key:    key,
	}
}

func (s *Store) Load(ctx context.Context) (*oauth2.Token, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}

	var record tokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidTokenData
	}

	return &oauth2.Token{
		AccessToken:  record.AccessToken,
		TokenType:    record.TokenType,
		RefreshToken: record.RefreshToken,
		Expiry:       record.Expiry,
	}, nil
}

// Save stores token. A token without a refresh token keeps the one already
// stored, since Google only returns it on the first consent.
func (s *Store) Save(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return ErrInvalidTokenData
	}

	record := tokenRecord{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		SavedAt:      time.Now().UTC(),
	}

	if record.RefreshToken == "" {
		existing, err := s.Load(ctx)
		switch {
		case err == nil:
			record.RefreshToken = existing.RefreshToken
		case !errors.Is(err, domain.ErrTokenNotFound):
			return err
		}
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidTokenData
	}

	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *Store) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
