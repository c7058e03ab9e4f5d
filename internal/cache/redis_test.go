package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/internal/cache"
	"github.com/jonesrussell/north-cloud/verifier/internal/testhelpers"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*cache.Redis, *miniredis.Miniredis, *testhelpers.FakeClock) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	clk := testhelpers.NewFakeClock(epoch)
	c := cache.NewRedis(client, ttl, clk)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr, clk
}

func TestRedis_RoundTrip(t *testing.T) {
	t.Parallel()

	c, mr, _ := newRedisCache(t, 30*time.Minute)
	ctx := context.Background()

	want := result("abc", epoch)
	require.NoError(t, c.Set(ctx, want))

	assert.True(t, mr.Exists("verifier:result:abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL("verifier:result:abc"))

	got, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedis_KeyExpiresWithRemainingTTL(t *testing.T) {
	t.Parallel()

	c, mr, clk := newRedisCache(t, 30*time.Minute)
	ctx := context.Background()

	clk.Advance(10 * time.Minute)
	require.NoError(t, c.Set(ctx, result("abc", epoch)))
	assert.Equal(t, 20*time.Minute, mr.TTL("verifier:result:abc"))
}

func TestRedis_StaleEntryIsMiss(t *testing.T) {
	t.Parallel()

	c, _, clk := newRedisCache(t, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, result("abc", epoch)))

	// Redis still holds the key; the clock says it is too old.
	clk.Advance(31 * time.Minute)
	_, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_ExpiredResultNotWritten(t *testing.T) {
	t.Parallel()

	c, mr, clk := newRedisCache(t, time.Minute)
	clk.Advance(time.Hour)

	require.NoError(t, c.Set(context.Background(), result("abc", epoch)))
	assert.False(t, mr.Exists("verifier:result:abc"))
}

func TestRedis_MissingKey(t *testing.T) {
	t.Parallel()

	c, _, _ := newRedisCache(t, time.Minute)

	got, ok, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedis_CorruptValue(t *testing.T) {
	t.Parallel()

	c, mr, _ := newRedisCache(t, time.Minute)
	require.NoError(t, mr.Set("verifier:result:bad", "{not json"))

	_, ok, err := c.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestRedis_ConnectionFailure(t *testing.T) {
	t.Parallel()

	c, mr, _ := newRedisCache(t, time.Minute)
	mr.Close()

	_, ok, err := c.Get(context.Background(), "abc")
	require.Error(t, err)
	assert.False(t, ok)
}
