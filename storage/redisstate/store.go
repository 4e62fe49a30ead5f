// Package redisstate keeps OAuth state tokens in Redis. The TTL bounds
// how long a callback stays valid and GETDEL makes consumption atomic,
// so a replayed callback can never pass twice.
package redisstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avocadoapp/identity/auth"
)

const keyPrefix = "oauth:state:"

// Store implements auth.StateStore on a Redis client.
type Store struct {
	client redis.UniversalClient
}

// New creates a state store.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func (s *Store) Store(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

// Consume removes the state and reports whether it existed. Unknown,
// expired, and already-consumed states are indistinguishable.
func (s *Store) Consume(ctx context.Context, state string) error {
	err := s.client.GetDel(ctx, keyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return auth.ErrStateNotFound
	}
	if err != nil {
		return fmt.Errorf("consume oauth state: %w", err)
	}
	return nil
}

var _ auth.StateStore = (*Store)(nil)
