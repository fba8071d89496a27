// Package session persists the server-side refresh-token record for each
// member in Redis. At most one record lives per member: writes under the
// same key are last-write-wins, and records expire with the refresh-token
// TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no session record exists for the member.
var ErrNotFound = errors.New("session not found")

// KeyPrefix namespaces refresh-token records in Redis.
const KeyPrefix = "RT:"

// Store holds refresh-token records keyed by member ID. All operations are
// single-key; there is no in-process caching.
type Store struct {
	client *redis.Client
}

// NewStore returns a Store backed by the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(memberID string) string {
	return KeyPrefix + memberID
}

// Save writes refreshToken as the member's current session record with the
// given TTL, superseding any prior value under the same key.
func (s *Store) Save(ctx context.Context, memberID, refreshToken string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(memberID), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("session: save %s: %w", key(memberID), err)
	}
	return nil
}

// Get returns the member's current refresh token, or ErrNotFound when no
// record exists (never written, expired, or deleted).
func (s *Store) Get(ctx context.Context, memberID string) (string, error) {
	value, err := s.client.Get(ctx, key(memberID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session: get %s: %w", key(memberID), err)
	}
	return value, nil
}

// Delete removes the member's session record. Returns ErrNotFound when the
// record was already gone; callers decide whether that is fatal.
func (s *Store) Delete(ctx context.Context, memberID string) error {
	deleted, err := s.client.Del(ctx, key(memberID)).Result()
	if err != nil {
		return fmt.Errorf("session: delete %s: %w", key(memberID), err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
