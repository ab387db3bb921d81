package maps

import (
	"context"
	"errors"
	"time"

	"stakeholder_map_backend/platform/config"
	"stakeholder_map_backend/platform/logger"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "stakeholder-map:geocode:"

// Cache stores serialized lookup results. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MemoryCache keeps results in process memory.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	raw, ok := value.([]byte)
	return raw, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

// RedisCache shares results between instances.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, cacheKeyPrefix+key, value, ttl).Err()
}

// NewCache picks Redis when REDIS_URL is configured and reachable, otherwise
// an in-process cache. The returned close func is never nil.
func NewCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (Cache, func() error) {
	noop := func() error { return nil }
	if !cfg.IsRedisEnabled() {
		return NewMemoryCache(cfg.GetGeocodeCacheTTL()), noop
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Warn("invalid REDIS_URL; using in-process geocode cache", "error", err)
		return NewMemoryCache(cfg.GetGeocodeCacheTTL()), noop
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Warn("redis unreachable; using in-process geocode cache", "error", err)
		return NewMemoryCache(cfg.GetGeocodeCacheTTL()), noop
	}

	log.Info("geocode cache backed by redis", "addr", opts.Addr)
	return NewRedisCache(client), client.Close
}
