package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Customers []string `json:"customers"`
}

func newTestCache(t *testing.T) (*ViewCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewViewCache(client).(*ViewCache), mr
}

func TestViewCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	value := snapshot{Customers: []string{"cust-1", "cust-2"}}
	require.NoError(t, cache.Set(ctx, "views:at_risk", value, time.Minute))

	var loaded snapshot
	hit, err := cache.Get(ctx, "views:at_risk", &loaded)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, value, loaded)
}

func TestViewCacheMissingKeyIsAMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	var loaded snapshot
	hit, err := cache.Get(context.Background(), "views:unknown", &loaded)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestViewCacheTTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "views:at_risk", snapshot{}, 30*time.Second))
	mr.FastForward(31 * time.Second)

	var loaded snapshot
	hit, err := cache.Get(ctx, "views:at_risk", &loaded)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestViewCacheDelete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "views:at_risk", snapshot{}, time.Minute))
	require.NoError(t, cache.Set(ctx, "views:portfolio_summary", snapshot{}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "views:at_risk", "views:portfolio_summary"))

	var loaded snapshot
	hit, err := cache.Get(ctx, "views:at_risk", &loaded)
	require.NoError(t, err)
	assert.False(t, hit)

	// Deleting nothing is a no-op.
	assert.NoError(t, cache.Delete(ctx))
}
