package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionKeyPrefix namespaces session records in Redis.
const SessionKeyPrefix = "session:"

// SessionUser is the user reference bound to a session token. It is
// what the validator hands back to handlers, without a second trip to
// Postgres.
type SessionUser struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// SessionStore persists session records keyed by token value. Records
// expire via the store's own TTL mechanism; Find never recomputes
// expiry, an expired token is simply gone.
type SessionStore interface {
	Create(ctx context.Context, token string, user SessionUser, ttl time.Duration) error
	Find(ctx context.Context, token string) (*SessionUser, error)
}

// RedisSessionStore implements SessionStore on go-redis, one JSON blob
// per token under session:<token>, expiry delegated to SET EX.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Create(ctx context.Context, token string, user SessionUser, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}
	if err := s.client.Set(ctx, SessionKeyPrefix+token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Find(ctx context.Context, token string) (*SessionUser, error) {
	raw, err := s.client.Get(ctx, SessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var user SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode session record: %w", err)
	}
	return &user, nil
}
