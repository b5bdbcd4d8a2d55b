package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps keys in Redis so OAuth state and tokens survive restarts
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// RedisOptions configures a RedisStore
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisStore connects to Redis and checks the connection
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "action-board:"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// Set stores a value. Zero expiration keeps the key forever.
func (rs *RedisStore) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return rs.client.Set(ctx, rs.prefix+key, value, expiration).Err()
}

// Get retrieves a value
func (rs *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := rs.client.Get(ctx, rs.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Pop retrieves and removes a value atomically
func (rs *RedisStore) Pop(ctx context.Context, key string) (string, bool, error) {
	value, err := rs.client.GetDel(ctx, rs.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Delete removes a key
func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	return rs.client.Del(ctx, rs.prefix+key).Err()
}

// Close closes the connection pool
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
