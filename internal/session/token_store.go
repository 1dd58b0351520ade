package session

import (
	"context"

	"github.com/geocoder89/leavetrack/internal/auth"
	"github.com/geocoder89/leavetrack/internal/domain/user"
)

// TokenStore keeps no server state: the cookie itself is a signed token.
// Destroy cannot revoke a copied token; it only stops the browser presenting it.
type TokenStore struct {
	tokens *auth.Manager
}

func NewTokenStore(tokens *auth.Manager) *TokenStore {
	return &TokenStore{tokens: tokens}
}

func (s *TokenStore) Create(ctx context.Context, id user.Identity) (string, error) {
	return s.tokens.GenerateSessionToken(id)
}

func (s *TokenStore) Get(ctx context.Context, token string) (user.Identity, error) {
	id, err := s.tokens.VerifySessionToken(token)
	if err != nil {
		return user.Identity{}, ErrNoSession
	}
	return id, nil
}

func (s *TokenStore) Destroy(ctx context.Context, token string) error {
	return nil
}

func (s *TokenStore) Ping(ctx context.Context) error {
	return nil
}
