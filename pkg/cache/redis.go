package cache

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/postpilot-ai/postpilot/pkg/types"
)

// RedisCache implements types.Cache. The reply engine uses it as the fast
// path in front of the durable dedup table; postgres stays the source of
// truth, so losing redis only costs an extra query.
type RedisCache struct {
	client *redis.Client
	prefix string
}

var (
	_ types.Cache = (*RedisCache)(nil)
	_ types.Cache = (*EmptyCache)(nil)
)

type Config struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

func (c *Config) FromENV() {
	c.Addr = os.Getenv("POSTPILOT_REDIS_ADDR")
	c.Password = os.Getenv("POSTPILOT_REDIS_PASSWORD")
	if dbStr := os.Getenv("POSTPILOT_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.DB = db
		}
	}
}

func New(cfg Config) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: cfg.KeyPrefix,
	}
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *RedisCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return c.client.SetEx(ctx, c.key(key), value, expiresAt).Err()
}

func (c *RedisCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.client.Expire(ctx, c.key(key), expiration).Err()
}

// EmptyCache is the fallback when no redis addr is configured.
type EmptyCache struct{}

func (c *EmptyCache) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (c *EmptyCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return nil
}

func (c *EmptyCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}
