package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisClient keeps the snapshot document under a single key.
type RedisClient struct {
	rdb *redis.Client
	key string
}

func NewRedisClient(addr, key string) *RedisClient {
	return newRedisClient(redis.NewClient(&redis.Options{Addr: addr}), key)
}

func newRedisClient(rdb *redis.Client, key string) *RedisClient {
	return &RedisClient{rdb: rdb, key: key}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *RedisClient) PushSnapshot(ctx context.Context, doc []byte) error {
	if err := c.rdb.Set(ctx, c.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

func (c *RedisClient) PullSnapshot(ctx context.Context) ([]byte, error) {
	doc, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", c.key, err)
	}
	return doc, nil
}

func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
