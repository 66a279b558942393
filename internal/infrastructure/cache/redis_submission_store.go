package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submissionKeyPrefix = "filing:submission:"

// RedisSubmissionStore shares claimed keys between instances.
// Claim is a single SET NX with expiry.
type RedisSubmissionStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisSubmissionStore creates a store on an existing client. The client is
// owned by the caller and is not closed by the store.
func NewRedisSubmissionStore(client redis.UniversalClient) *RedisSubmissionStore {
	return &RedisSubmissionStore{client: client, keyPrefix: submissionKeyPrefix}
}

// Claim records key for ttl. It returns false when the key is already held.
func (s *RedisSubmissionStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim submission key: %w", err)
	}
	return ok, nil
}

// Release drops key so the same submission can be retried
func (s *RedisSubmissionStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release submission key: %w", err)
	}
	return nil
}
