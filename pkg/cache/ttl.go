package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a keyed cache whose entries expire after a fixed duration.
// Concurrent misses for the same key share a single load.
type TTL[K comparable, V any] struct {
	mu        sync.RWMutex
	ttl       time.Duration
	entries   map[K]entry[V]
	lastSweep time.Time
	group     singleflight.Group
	now       func() time.Time
	keyFn     func(K) string
}

// New creates a cache. keyFn renders keys for singleflight deduplication.
func New[K comparable, V any](ttl time.Duration, keyFn func(K) string) *TTL[K, V] {
	return &TTL[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		now:     time.Now,
		keyFn:   keyFn,
	}
}

// Get returns a live entry.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTL[K, V]) Set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= c.ttl {
		c.purgeLocked(now)
		c.lastSweep = now
	}
	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl)}
}

func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.group.Forget(c.keyFn(key))
}

// GetOrLoad returns the cached value or calls load once for all concurrent callers.
// When load reports ok == false nothing is cached.
func (c *TTL[K, V]) GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, bool, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	type result struct {
		value V
		found bool
	}

	res, err, _ := c.group.Do(c.keyFn(key), func() (any, error) {
		v, found, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if found {
			c.Set(key, v)
		}
		return result{value: v, found: found}, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}

	r := res.(result)
	return r.value, r.found, nil
}

// purgeLocked drops expired entries. Set runs it at most once per ttl.
func (c *TTL[K, V]) purgeLocked(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
