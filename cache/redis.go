package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"pickem-app-go/logging"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache is a thin JSON cache over Redis. A nil *RedisCache is valid
// and behaves as a permanent miss, so callers don't branch on whether
// caching is enabled.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	logger := logging.WithPrefix("Cache")
	logger.Infof("Connected to redis at %s (db=%d, ttl=%s)", cfg.Addr, cfg.DB, ttl)

	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// GetJSON loads and decodes a cached value. Returns false on miss; cache
// errors are logged and reported as misses so reads fall through to the
// database.
func (c *RedisCache) GetJSON(ctx context.Context, key string, target any) bool {
	if c == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnf("Get %s failed: %v", key, err)
		}
		return false
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		c.logger.Warnf("Decode %s failed: %v", key, err)
		return false
	}
	return true
}

// SetJSON encodes and stores a value under the configured TTL. Failures are
// logged and swallowed; the cache is never load-bearing.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	raw, err := sonic.Marshal(value)
	if err != nil {
		c.logger.Warnf("Encode %s failed: %v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warnf("Set %s failed: %v", key, err)
	}
}

// Invalidate removes keys, typically after a write that staled them.
func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warnf("Del %v failed: %v", keys, err)
	}
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// LockedLinesKey is the cache key for a week's locked-lines result.
func LockedLinesKey(season, week int) string {
	return fmt.Sprintf("lockedlines:%d:%d", season, week)
}

// StandingsKey is the cache key for a season's standings.
func StandingsKey(season int) string {
	return fmt.Sprintf("standings:%d", season)
}
