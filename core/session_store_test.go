package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestSessionStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client), mr
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	user := SessionUser{UserID: 7, Username: "alice"}
	if err := store.Create(ctx, "token-1", user, time.Hour); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := store.Find(ctx, "token-1")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if *got != user {
		t.Fatalf("expected %+v, got %+v", user, *got)
	}
}

func TestRedisSessionStoreUnknownToken(t *testing.T) {
	store, _ := newTestSessionStore(t)
	if _, err := store.Find(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisSessionStoreTTLExpiry(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "token-1", SessionUser{UserID: 1, Username: "alice"}, time.Minute); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if ttl := mr.TTL(SessionKeyPrefix + "token-1"); ttl != time.Minute {
		t.Fatalf("expected TTL of 1m on the key, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Find(ctx, "token-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired token must be gone, got %v", err)
	}
}
