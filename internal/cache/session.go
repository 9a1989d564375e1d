package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/redis/go-redis/v9"
)

// sessionPrefix is the Redis key prefix for sessions.
const sessionPrefix = "session:"

// ErrSessionNotFound is returned when no live session exists for a key.
var ErrSessionNotFound = errors.New("session not found")

// SaveSession stores a session under its derived key until it expires.
func (c *Cache) SaveSession(ctx context.Context, key string, session *model.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := c.client.Set(ctx, sessionPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetSession loads a session. Missing, corrupted and expired entries all
// return ErrSessionNotFound.
func (c *Cache) GetSession(ctx context.Context, key string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (c *Cache) DeleteSession(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, sessionPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
