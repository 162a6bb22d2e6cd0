// README: Places result caching (Redis when configured, in-process otherwise).
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores search results by query key.
type Cache interface {
	Get(ctx context.Context, key string) ([]Place, bool, error)
	Set(ctx context.Context, key string, places []Place) error
}

// RedisCache keeps results as JSON strings with a TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: "wayfarer:places:", ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Place, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var places []Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, false, fmt.Errorf("decode cached places: %w", err)
	}
	return places, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, places []Place) error {
	raw, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("encode places: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// MemoryCache is the single-process fallback.
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]Place, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	places, ok := v.([]Place)
	return places, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, places []Place) error {
	m.c.SetDefault(key, places)
	return nil
}

// CachedPlaces wraps a Searcher with a Cache. Cache failures are logged and
// the search goes to the provider; provider errors are never cached.
type CachedPlaces struct {
	next  Searcher
	cache Cache
	log   *slog.Logger
}

func NewCachedPlaces(next Searcher, cache Cache, log *slog.Logger) *CachedPlaces {
	return &CachedPlaces{next: next, cache: cache, log: log}
}

func (c *CachedPlaces) SearchNearby(ctx context.Context, q NearbyQuery) ([]Place, error) {
	key := fmt.Sprintf("nearby:%s:%d:%s:%s:%d",
		coordKey(q.Center.Lat, q.Center.Lng), q.RadiusM, q.IncludedType, typesKey(q.ExcludedTypes), q.MaxResults)
	return c.lookup(ctx, key, func() ([]Place, error) { return c.next.SearchNearby(ctx, q) })
}

func (c *CachedPlaces) SearchText(ctx context.Context, q TextQuery) ([]Place, error) {
	key := fmt.Sprintf("text:%s:%d:%s:%s:%d",
		coordKey(q.Center.Lat, q.Center.Lng), q.RadiusM, strings.ToLower(strings.TrimSpace(q.Query)), typesKey(q.ExcludedTypes), q.MaxResults)
	return c.lookup(ctx, key, func() ([]Place, error) { return c.next.SearchText(ctx, q) })
}

func (c *CachedPlaces) lookup(ctx context.Context, key string, fetch func() ([]Place, error)) ([]Place, error) {
	places, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("places cache read failed", "key", key, "err", err)
	}
	if ok {
		return places, nil
	}
	places, err = fetch()
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, places); err != nil {
		c.log.Warn("places cache write failed", "key", key, "err", err)
	}
	return places, nil
}

// coordKey rounds to ~11 m so nearby centers share entries.
func coordKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", math.Round(lat*1e4)/1e4, math.Round(lng*1e4)/1e4)
}

func typesKey(ts []string) string {
	return strings.Join(ts, "|")
}
