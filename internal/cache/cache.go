package cache

import (
	"context"
	"log"
	"reflect"
	"sync"
	"time"
)

const (
	// DefaultTTL applies when callers pass a zero TTL.
	DefaultTTL = 5 * time.Minute
	// SweepInterval is how often the background sweep evicts expired entries.
	SweepInterval = 60 * time.Second
)

type entry struct {
	value  any
	expiry time.Time
}

// Cache is an in-process TTL key-value cache shared across subsystems.
// Keys are namespaced by convention (e.g. "user_prefs:<uid>").
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	subs    map[string][]func(any)

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// New creates a cache and starts its background sweep.
func New() *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		subs:    make(map[string][]func(any)),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.sweepLoop(SweepInterval)
	return c
}

// Set stores a value with an absolute expiry of now+ttl.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, expiry: c.now().Add(ttl)}
	c.mu.Unlock()

	log.Printf("[cache] set key=%s ttl=%s", key, ttl)
}

// Get returns the cached value if present and unexpired. An expired entry is
// evicted on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		log.Printf("[cache] miss key=%s", key)
		return nil, false
	}
	if c.now().After(e.expiry) {
		delete(c.entries, key)
		c.mu.Unlock()
		log.Printf("[cache] expired key=%s", key)
		return nil, false
	}
	c.mu.Unlock()

	log.Printf("[cache] hit key=%s", key)
	return e.value, true
}

// Clear removes the given keys, or every entry when called with none.
func (c *Cache) Clear(keys ...string) {
	c.mu.Lock()
	if len(keys) == 0 {
		c.entries = make(map[string]entry)
		c.mu.Unlock()
		log.Printf("[cache] cleared all")
		return
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()

	log.Printf("[cache] cleared keys=%d", len(keys))
}

// Sweep proactively evicts expired entries regardless of access.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	removed := 0
	for k, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, k)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		log.Printf("[cache] sweep removed=%d", removed)
	}
	return removed
}

// Len reports the number of live entries (expired-but-unswept included).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the background sweep.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}

// Subscribe registers fn to run whenever a background refresh of key produces
// a value different from the cached one. The returned func unsubscribes.
func (c *Cache) Subscribe(key string, fn func(any)) func() {
	c.mu.Lock()
	c.subs[key] = append(c.subs[key], fn)
	idx := len(c.subs[key]) - 1
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		subs := c.subs[key]
		if idx < len(subs) {
			subs[idx] = nil
		}
		c.mu.Unlock()
	}
}

// GetOrRefresh is a two-phase read: when the key is cached, the stale value is
// returned immediately and fetch runs in the background, reconciling the cache
// and notifying subscribers if the fresh value differs. On a miss, fetch runs
// synchronously.
func (c *Cache) GetOrRefresh(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (any, error)) (any, error) {
	if cached, ok := c.Get(key); ok {
		go func() {
			fresh, err := fetch(context.WithoutCancel(ctx))
			if err != nil {
				log.Printf("[cache] refresh failed key=%s error=%v", key, err)
				return
			}
			c.Set(key, fresh, ttl)
			if !reflect.DeepEqual(fresh, cached) {
				c.notify(key, fresh)
			}
		}()
		return cached, nil
	}

	fresh, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(key, fresh, ttl)
	return fresh, nil
}

func (c *Cache) notify(key string, value any) {
	c.mu.Lock()
	subs := make([]func(any), 0, len(c.subs[key]))
	for _, fn := range c.subs[key] {
		if fn != nil {
			subs = append(subs, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}
