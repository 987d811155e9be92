package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/ports"
)

func newRedis(t *testing.T, prefix string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	c, err := NewRedisCache(Config{
		Addr:        mr.Addr(),
		Prefix:      prefix,
		DialTimeout: time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestCaches_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rc, _ := newRedis(t, "")

	stores := map[string]ports.CacheService{
		"memory": NewMemoryCache(time.Minute, time.Minute, zap.NewNop()),
		"redis":  rc,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrCacheMiss)

			require.NoError(t, store.Set(ctx, "weather:35.68:139.76:291", []byte(`{"a":1}`), time.Minute))

			got, err := store.Get(ctx, "weather:35.68:139.76:291")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"a":1}`), got)

			require.NoError(t, store.Delete(ctx, "weather:35.68:139.76:291"))

			_, err = store.Get(ctx, "weather:35.68:139.76:291")
			assert.ErrorIs(t, err, ErrCacheMiss)

			require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
			require.NoError(t, store.Clear(ctx))

			_, err = store.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrCacheMiss)
		})
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Hour, zap.NewNop())

	require.NoError(t, c.Set(ctx, "short", []byte("x"), 20*time.Millisecond))

	_, err := c.Get(ctx, "short")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Hour, zap.NewNop())

	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, time.Minute))

	value[0] = 'z'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
	assert.Equal(t, 1, c.Len())
}

func TestRedisCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t, "")

	require.NoError(t, c.Set(ctx, "pollen:35.6800:139.7600:20261018", []byte("x"), 24*time.Hour))

	mr.FastForward(24*time.Hour + time.Second)

	_, err := c.Get(ctx, "pollen:35.6800:139.7600:20261018")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_PrefixedClear(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t, "advisor:")

	require.NoError(t, mr.Set("other", "keep"))
	require.NoError(t, c.Set(ctx, "items:20:sunny:nil:nil", []byte("x"), time.Hour))

	assert.True(t, mr.Exists("advisor:items:20:sunny:nil:nil"))

	require.NoError(t, c.Clear(ctx))

	assert.False(t, mr.Exists("advisor:items:20:sunny:nil:nil"))
	assert.True(t, mr.Exists("other"))
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	c, err := NewRedisCache(Config{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond}, zap.NewNop())

	assert.Error(t, err)
	assert.Nil(t, c)
}
