package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cheesemarket/internal/cache"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists login sessions keyed by an opaque session id.
type SessionStore interface {
	Create(ctx context.Context, p *Principal, ttl time.Duration) (string, error)
	Get(ctx context.Context, sessionID string) (*Principal, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore stores sessions in Redis with a TTL.
type RedisSessionStore struct {
	cache *cache.Client
}

var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a session store backed by the given Redis client.
func NewRedisSessionStore(cache *cache.Client) *RedisSessionStore {
	return &RedisSessionStore{cache: cache}
}

// Create stores the principal under a fresh opaque session id.
func (s *RedisSessionStore) Create(ctx context.Context, p *Principal, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	sessionID := uuid.NewString()
	if err := s.cache.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}

// Get resolves a session id back to its principal.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*Principal, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, ErrSessionNotFound
	}

	var p Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &p, nil
}

// Delete terminates a session. Deleting an unknown session is not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+sessionID)
}
