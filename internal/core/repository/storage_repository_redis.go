package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 5 * time.Second

// RedisStorageRepository implements domain.KeyValueStore as one Redis hash
// per origin.
type RedisStorageRepository struct {
	client *redis.Client
	key    string
}

// NewRedisStorageRepository creates a RedisStorageRepository scoped to origin.
func NewRedisStorageRepository(client *redis.Client, origin string) *RedisStorageRepository {
	return &RedisStorageRepository{client: client, key: "workshop-console:storage:" + origin}
}

func (r *RedisStorageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	value, err := r.client.HGet(ctx, r.key, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisStorageRepository) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	return r.client.HSet(ctx, r.key, key, value).Err()
}

func (r *RedisStorageRepository) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	return r.client.HDel(ctx, r.key, key).Err()
}
