package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() (*Cache, *time.Time) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	c := &Cache{
		entries: make(map[string]entry),
		subs:    make(map[string][]func(any)),
		now:     func() time.Time { return now },
		stop:    make(chan struct{}),
	}
	return c, &now
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache()

	c.Set("user_prefs:u1", map[string]string{"theme": "dark"}, time.Minute)

	got, ok := c.Get("user_prefs:u1")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"theme": "dark"}, got)
}

func TestCache_ExpiryAndSweep(t *testing.T) {
	c, now := newTestCache()

	c.Set("k", "v", time.Minute)

	t.Run("get before expiry hits", func(t *testing.T) {
		_, ok := c.Get("k")
		assert.True(t, ok)
	})

	t.Run("get after expiry evicts", func(t *testing.T) {
		*now = now.Add(2 * time.Minute)
		got, ok := c.Get("k")
		assert.False(t, ok)
		assert.Nil(t, got)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("sweep removes expired without access", func(t *testing.T) {
		c.Set("a", 1, time.Minute)
		c.Set("b", 2, 10*time.Minute)
		*now = now.Add(5 * time.Minute)

		removed := c.Sweep()
		assert.Equal(t, 1, removed)

		_, ok := c.Get("b")
		assert.True(t, ok)
	})
}

func TestCache_Clear(t *testing.T) {
	c, _ := newTestCache()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_DefaultTTL(t *testing.T) {
	c, now := newTestCache()
	c.Set("k", "v", 0)

	*now = now.Add(DefaultTTL - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	*now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_GetOrRefresh(t *testing.T) {
	t.Run("miss fetches synchronously", func(t *testing.T) {
		c, _ := newTestCache()

		got, err := c.GetOrRefresh(context.Background(), "k", time.Minute, func(context.Context) (any, error) {
			return "fresh", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", got)

		cached, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, "fresh", cached)
	})

	t.Run("hit returns stale and reconciles in background", func(t *testing.T) {
		c, _ := newTestCache()
		c.Set("k", "stale", time.Minute)

		var wg sync.WaitGroup
		wg.Add(1)
		var notified any
		c.Subscribe("k", func(v any) {
			notified = v
			wg.Done()
		})

		got, err := c.GetOrRefresh(context.Background(), "k", time.Minute, func(context.Context) (any, error) {
			return "fresh", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "stale", got)

		wg.Wait()
		assert.Equal(t, "fresh", notified)

		cached, _ := c.Get("k")
		assert.Equal(t, "fresh", cached)
	})

	t.Run("unchanged refresh does not notify", func(t *testing.T) {
		c, _ := newTestCache()
		c.Set("k", "same", time.Minute)

		done := make(chan struct{})
		fired := false
		c.Subscribe("k", func(any) { fired = true })

		_, err := c.GetOrRefresh(context.Background(), "k", time.Minute, func(context.Context) (any, error) {
			defer close(done)
			return "same", nil
		})
		require.NoError(t, err)

		<-done
		time.Sleep(10 * time.Millisecond)
		assert.False(t, fired)
	})
}
