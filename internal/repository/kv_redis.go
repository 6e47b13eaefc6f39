package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "herspace:kv:"

type redisKVRepository struct {
	client *redis.Client
}

// NewRedisKVRepository stores each namespace as one hash.
func NewRedisKVRepository(client *redis.Client) KVRepository {
	return &redisKVRepository{client: client}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (r *redisKVRepository) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, redisKeyPrefix+namespace, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *redisKVRepository) Set(ctx context.Context, namespace, key, value string) error {
	return r.client.HSet(ctx, redisKeyPrefix+namespace, key, value).Err()
}
