package authlockout

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for lockout counters
const lockoutKeyPrefix = "lockout:"

// RedisStore is a Redis-backed lockout store. The TTL on the counter key is
// the rolling window; the count disappears with the key.
// This is the production-recommended implementation for distributed
// deployments where multiple instances share lockout state.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) RecordFailure(ctx context.Context, identifier string, window time.Duration) (int64, error) {
	key := lockoutKeyPrefix + identifier
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// First failure in the window starts the clock.
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (s *RedisStore) Failures(ctx context.Context, identifier string) (int64, error) {
	count, err := s.client.Get(ctx, lockoutKeyPrefix+identifier).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (s *RedisStore) Clear(ctx context.Context, identifier string) error {
	return s.client.Del(ctx, lockoutKeyPrefix+identifier).Err()
}
