package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"pazlcollab/internal/platform/redis"
)

// Cache holds the last published expert listing. Fresh reads serve traffic;
// stale reads back-stop a store outage so the catalog degrades instead of
// erroring.
type Cache interface {
	Fresh(ctx context.Context) ([]Expert, bool)
	Stale(ctx context.Context) ([]Expert, bool)
	Set(ctx context.Context, experts []Expert)
}

// MemoryCache is the single-process cache.
type MemoryCache struct {
	mu      sync.RWMutex
	experts []Expert
	setAt   time.Time
	ttl     time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl}
}

func (c *MemoryCache) Fresh(context.Context) ([]Expert, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.experts == nil || time.Since(c.setAt) > c.ttl {
		return nil, false
	}
	return c.experts, true
}

func (c *MemoryCache) Stale(context.Context) ([]Expert, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.experts, c.experts != nil
}

func (c *MemoryCache) Set(_ context.Context, experts []Expert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.experts = experts
	c.setAt = time.Now()
}

// RedisCache shares the listing between replicas: a TTL'd fresh key plus a
// persistent stale key written together.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

const (
	freshKey = "catalog:experts"
	staleKey = "catalog:experts:stale"
)

func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func (c *RedisCache) Fresh(ctx context.Context) ([]Expert, bool) {
	return c.read(ctx, freshKey)
}

func (c *RedisCache) Stale(ctx context.Context) ([]Expert, bool) {
	return c.read(ctx, staleKey)
}

func (c *RedisCache) read(ctx context.Context, key string) ([]Expert, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var experts []Expert
	if err := json.Unmarshal(data, &experts); err != nil {
		c.log.Warn("corrupt catalog cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return experts, true
}

func (c *RedisCache) Set(ctx context.Context, experts []Expert) {
	data, err := json.Marshal(experts)
	if err != nil {
		c.log.Error("encode catalog cache", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, freshKey, data, c.ttl).Err(); err != nil {
		c.log.Warn("write catalog cache", zap.Error(err))
	}
	if err := c.client.Set(ctx, staleKey, data, 0).Err(); err != nil {
		c.log.Warn("write catalog stale cache", zap.Error(err))
	}
}
