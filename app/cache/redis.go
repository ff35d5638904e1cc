package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"newspulse/app/feed"
)

var _ Cache = (*RedisCache)(nil)

// staleRetention multiplies the logical TTL to get the Redis expiry, so a
// stale entry survives long enough to cover a source outage.
const staleRetention = 12

const keyPrefix = "newspulse:feed:"

// RedisCache is the shared backend for multi-instance deployments. All
// errors are logged and treated as cache misses; content delivery outranks
// caching.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ctx: ctx}, nil
}

func (c *RedisCache) Get(key string) *Entry {
	data, err := c.client.Get(c.ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		slog.Warn("Cache backend unavailable, treating as miss", "key", key, "error", err)
		return nil
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		slog.Warn("Invalid cache entry, deleting", "key", key, "error", err)
		c.client.Del(c.ctx, keyPrefix+key)
		return nil
	}

	return &entry
}

func (c *RedisCache) Put(key string, items []feed.Item, ttl time.Duration) {
	entry := Entry{
		Key:        key,
		Items:      items,
		WrittenAt:  time.Now().UTC(),
		TTLSeconds: int(ttl.Seconds()),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		slog.Error("Failed to marshal cache entry", "key", key, "error", err)
		return
	}

	if err := c.client.Set(c.ctx, keyPrefix+key, data, ttl*staleRetention).Err(); err != nil {
		slog.Warn("Failed to write cache entry", "key", key, "error", err)
	}
}

func (c *RedisCache) Clear(key string) {
	if key == "" {
		keys, err := c.client.Keys(c.ctx, keyPrefix+"*").Result()
		if err != nil {
			slog.Warn("Failed to list cache keys", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(c.ctx, keys...).Err(); err != nil {
				slog.Warn("Failed to clear cache", "error", err)
			}
		}
		return
	}

	if err := c.client.Del(c.ctx, keyPrefix+key).Err(); err != nil {
		slog.Warn("Failed to delete cache entry", "key", key, "error", err)
	}
}

func (c *RedisCache) Health() map[string]interface{} {
	health := map[string]interface{}{
		"status": "healthy",
		"type":   "redis",
	}

	if err := c.client.Ping(c.ctx).Err(); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
		return health
	}

	if count, err := c.client.DBSize(c.ctx).Result(); err == nil {
		health["key_count"] = count
	}

	return health
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
