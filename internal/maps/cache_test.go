package maps

import (
	"context"
	"testing"
	"time"

	"stakeholder_map_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cacheConfig struct {
	url string
	ttl time.Duration
}

func (c cacheConfig) GetRedisURL() string               { return c.url }
func (c cacheConfig) GetGeocodeCacheTTL() time.Duration { return c.ttl }
func (c cacheConfig) IsRedisEnabled() bool              { return c.url != "" }

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	raw, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), raw)
}

func TestRedisCachePrefixesAndExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	_, ok, err := c.Get(ctx, "geocode:hannover")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "geocode:hannover", []byte(`[]`), time.Hour))
	assert.True(t, mr.Exists(cacheKeyPrefix+"geocode:hannover"))

	raw, ok, err := c.Get(ctx, "geocode:hannover")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), raw)

	mr.FastForward(2 * time.Hour)
	_, ok, err = c.Get(ctx, "geocode:hannover")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewCacheSelectsBackend(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()

	c, closeFn := NewCache(ctx, cacheConfig{ttl: time.Minute}, log)
	assert.IsType(t, &MemoryCache{}, c)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	c, closeFn = NewCache(ctx, cacheConfig{url: "redis://" + mr.Addr(), ttl: time.Minute}, log)
	assert.IsType(t, &RedisCache{}, c)
	assert.NoError(t, closeFn())

	c, closeFn = NewCache(ctx, cacheConfig{url: "::not a url", ttl: time.Minute}, log)
	assert.IsType(t, &MemoryCache{}, c)
	assert.NoError(t, closeFn())
}
