package cache

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on a go-redis client. Ordered sets map to
// Redis sorted sets, plain records to string keys.
type RedisCache struct {
	rdb *goredis.Client
}

var _ Cache = (*RedisCache)(nil)

// NewRedis creates a Redis backed cache from a connection string, e.g.
// "redis://:password@localhost:6379/0"
func NewRedis(connectionString string) (*RedisCache, error) {
	opts, err := goredis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("[cache NewRedis] invalid connection string: %w", err)
	}
	return &RedisCache{rdb: goredis.NewClient(opts)}, nil
}

// Ping verifies the connection is alive. Called once at startup so a
// misconfigured cache fails the process rather than the first login.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("[cache Ping] %w", err)
	}
	return nil
}

func (c *RedisCache) AddScored(ctx context.Context, set, member string, score int64) error {
	err := c.rdb.ZAdd(ctx, set, goredis.Z{Score: float64(score), Member: member}).Err()
	if err != nil {
		return fmt.Errorf("[cache AddScored] %w", err)
	}
	return nil
}

func (c *RedisCache) ScoreOf(ctx context.Context, set, member string) (int64, bool, error) {
	score, err := c.rdb.ZScore(ctx, set, member).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("[cache ScoreOf] %w", err)
	}
	return int64(score), true, nil
}

func (c *RedisCache) Remove(ctx context.Context, set, member string) error {
	if err := c.rdb.ZRem(ctx, set, member).Err(); err != nil {
		return fmt.Errorf("[cache Remove] %w", err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[cache Get] %w", err)
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	if err := c.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("[cache Set] %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("[cache Delete] %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
