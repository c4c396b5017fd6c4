package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"biblioteca/internal/cache"
)

// ErrTokenNotFound is returned when a refresh token ID has no stored session.
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenStoreInterface persists refresh-token sessions.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email, role string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email, role string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
}

type refreshSession struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenStore keeps refresh-token sessions in Redis.
type TokenStore struct {
	cache *cache.Client
}

// NewTokenStore creates a Redis-backed token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

func (s *TokenStore) key(tokenID string) string {
	return "refresh:" + tokenID
}

// StoreRefreshToken stores the session under the token ID with a TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email, role string, ttl time.Duration) error {
	payload, err := json.Marshal(refreshSession{UserID: userID, Email: email, Role: role})
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.key(tokenID), payload, ttl)
}

// GetRefreshToken returns the session for a token ID, or ErrTokenNotFound.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, string, error) {
	data, err := s.cache.Get(ctx, s.key(tokenID))
	if err != nil {
		return 0, "", "", err
	}
	if data == nil {
		return 0, "", "", ErrTokenNotFound
	}
	var session refreshSession
	if err := json.Unmarshal(data, &session); err != nil {
		return 0, "", "", err
	}
	return session.UserID, session.Email, session.Role, nil
}

// DeleteRefreshToken removes the stored session.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, s.key(tokenID))
}
