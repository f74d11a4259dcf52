package media

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores resolved URLs in redis under a key prefix.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "media:url:"}
}

func (c *RedisCache) Get(ctx context.Context, ref string) (string, bool, error) {
	v, err := c.client.Get(ctx, c.prefix+ref).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, ref, url string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+ref, url, ttl).Err()
}

// MemoryCache is the in-process fallback used when redis is not configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

type memEntry struct {
	url     string
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]memEntry{}, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, ref string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ref]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, ref)
		return "", false, nil
	}
	return e.url, true, nil
}

func (c *MemoryCache) Set(_ context.Context, ref, url string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memEntry{url: url}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[ref] = e
	return nil
}
