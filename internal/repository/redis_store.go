package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisStatePrefix = "discovery:state:"

// RedisStateStore keeps each key as a Redis string without expiry.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore creates a store backed by Redis string keys.
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// Load returns the value stored under key.
func (s *RedisStateStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisStatePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state from Redis: %w", err)
	}
	return data, nil
}

// Save writes value under key without expiry.
func (s *RedisStateStore) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, redisStatePrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write state to Redis: %w", err)
	}
	return nil
}
