// Package query wraps the dispatcher's read operations with a
// time-expiring, key-deduplicated cache.
package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a cached result is served before the backend is
// queried again.
const DefaultTTL = 360 * time.Second

type entry[V any] struct {
	value      V
	err        error
	insertedAt time.Time
}

// Cache is a TTL cache over an async fetch function. Entries store the
// whole result: a cached error is re-served until it expires, trading
// freshness for not hammering a failing backend. Concurrent callers for
// the same key share a single in-flight fetch.
type Cache[V any] struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]entry[V]
	group   singleflight.Group
}

// NewCache creates a cache with the given entry lifetime.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

// Do returns the cached result for key, or runs fetch to populate it.
// At most one fetch per key is in flight at a time; duplicate concurrent
// callers receive the shared result. Unrelated keys never contend on a
// fetch, only on the brief map access.
func (c *Cache[V]) Do(ctx context.Context, key string, fetch func(context.Context) (V, error)) (V, error) {
	if value, err, ok := c.lookup(key); ok {
		return value, err
	}

	result, _, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have populated the entry between the
		// miss above and acquiring the flight.
		if value, err, ok := c.lookup(key); ok {
			return entry[V]{value: value, err: err}, nil
		}

		value, err := fetch(ctx)
		e := entry[V]{value: value, err: err, insertedAt: time.Now()}
		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		return e, nil
	})

	e := result.(entry[V])
	return e.value, e.err
}

// lookup returns the live entry for key, dropping it when expired.
func (c *Cache[V]) lookup(key string) (V, error, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, nil, false
	}
	if time.Since(e.insertedAt) > c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, nil, false
	}
	return e.value, e.err, true
}

// Invalidate drops the entry for key, forcing the next Do to fetch.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
