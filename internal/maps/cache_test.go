package maps

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/types"
)

type countingSearcher struct {
	nearby, text int
	err          error
}

func (s *countingSearcher) SearchNearby(_ context.Context, q NearbyQuery) ([]Place, error) {
	s.nearby++
	if s.err != nil {
		return nil, s.err
	}
	return []Place{{ID: "n-" + q.IncludedType, Name: "Nearby"}}, nil
}

func (s *countingSearcher) SearchText(_ context.Context, q TextQuery) ([]Place, error) {
	s.text++
	return []Place{{ID: "t-" + q.Query, Name: "Text"}}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachedPlacesHitsProviderOnce(t *testing.T) {
	next := &countingSearcher{}
	c := NewCachedPlaces(next, NewMemoryCache(time.Minute), discardLogger())
	ctx := context.Background()
	q := NearbyQuery{Center: types.Point{Lat: 38.7223, Lng: -9.1393}, RadiusM: 3000, IncludedType: "cafe", MaxResults: 20}

	first, err := c.SearchNearby(ctx, q)
	require.NoError(t, err)
	second, err := c.SearchNearby(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.nearby)

	q.IncludedType = "bakery"
	_, err = c.SearchNearby(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, next.nearby)
}

func TestCachedPlacesTextKeyIgnoresCase(t *testing.T) {
	next := &countingSearcher{}
	c := NewCachedPlaces(next, NewMemoryCache(time.Minute), discardLogger())
	ctx := context.Background()

	_, err := c.SearchText(ctx, TextQuery{Query: "Cafe"})
	require.NoError(t, err)
	_, err = c.SearchText(ctx, TextQuery{Query: " cafe "})
	require.NoError(t, err)
	assert.Equal(t, 1, next.text)
}

func TestCachedPlacesDoesNotCacheErrors(t *testing.T) {
	next := &countingSearcher{err: errors.New("quota exceeded")}
	c := NewCachedPlaces(next, NewMemoryCache(time.Minute), discardLogger())
	q := NearbyQuery{IncludedType: "museum"}

	_, err := c.SearchNearby(context.Background(), q)
	require.Error(t, err)
	_, err = c.SearchNearby(context.Background(), q)
	require.Error(t, err)
	assert.Equal(t, 2, next.nearby)
}

// TestRedisCacheRoundTrip runs only against a live Redis.
func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("WAYFARER_REDIS_ADDR")
	if addr == "" {
		t.Skip("WAYFARER_REDIS_ADDR not set; skipping Redis-backed tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisCache(client, time.Minute)
	ctx := context.Background()
	key := "test:" + t.Name()
	t.Cleanup(func() { client.Del(ctx, cache.prefix+key) })

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []Place{{ID: "p1", Name: "Miradouro", PrimaryType: "tourist_attraction", Location: types.Point{Lat: 38.71, Lng: -9.13}}}
	require.NoError(t, cache.Set(ctx, key, want))

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
