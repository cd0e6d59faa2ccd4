// internal/common/cache/result_cache.go
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is used when New is given a non-positive TTL.
const DefaultTTL = time.Hour

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Option configures a ResultCache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly for TTL tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// ResultCache is a TTL-bounded map from key to computed value. At most one
// computation runs per key at a time; concurrent callers for the same key
// share its outcome. Failed computations are never stored.
type ResultCache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[V]
	ttl        time.Duration
	generation uint64
	lastSweep  time.Time
	now        func() time.Time
	group      singleflight.Group
}

func New[V any](ttl time.Duration, opts ...Option) *ResultCache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache[V]{
		entries:   make(map[string]entry[V]),
		ttl:       ttl,
		now:       o.now,
		lastSweep: o.now(),
	}
}

// Get returns the stored value for key if it has not expired.
func (c *ResultCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupLocked(key)
}

func (c *ResultCache[V]) lookupLocked(key string) (V, bool) {
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.insertedAt) > c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

type flightResult[V any] struct {
	value  V
	cached bool
}

// GetOrCompute returns the cached value for key or runs compute to produce it.
// The boolean reports whether the value came from the store. If ctx ends while
// waiting, GetOrCompute returns ctx.Err() but the computation keeps running and
// its result is still stored for later callers.
func (c *ResultCache[V]) GetOrCompute(ctx context.Context, key string, compute func() (V, error)) (V, bool, error) {
	return c.GetOrComputeStamped(ctx, key, func() (V, time.Time, error) {
		v, err := compute()
		return v, time.Time{}, err
	})
}

// GetOrComputeStamped is GetOrCompute for values that may have been produced
// earlier, e.g. read from another cache tier. compute reports when the value
// was produced; the entry expires ttl after that instant. A zero time means now.
func (c *ResultCache[V]) GetOrComputeStamped(ctx context.Context, key string, compute func() (V, time.Time, error)) (V, bool, error) {
	c.mu.RLock()
	v, ok := c.lookupLocked(key)
	gen := c.generation
	c.mu.RUnlock()
	if ok {
		return v, true, nil
	}

	// Callers arriving after a Clear never join a flight started before it.
	flightKey := strconv.FormatUint(gen, 10) + ":" + key
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		c.mu.RLock()
		v, ok := c.lookupLocked(key)
		c.mu.RUnlock()
		if ok {
			return flightResult[V]{value: v, cached: true}, nil
		}

		v, producedAt, err := compute()
		if err != nil {
			return nil, err
		}
		c.store(key, v, producedAt, gen)
		return flightResult[V]{value: v}, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		fr := res.Val.(flightResult[V])
		return fr.value, fr.cached, nil
	}
}

// store drops the value if Clear ran after the computation started or if it
// is already older than the TTL.
func (c *ResultCache[V]) store(key string, v V, producedAt time.Time, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	now := c.now()
	if producedAt.IsZero() || producedAt.After(now) {
		producedAt = now
	}
	if now.Sub(producedAt) > c.ttl {
		return
	}
	if now.Sub(c.lastSweep) > c.ttl {
		for k, e := range c.entries {
			if now.Sub(e.insertedAt) > c.ttl {
				delete(c.entries, k)
			}
		}
		c.lastSweep = now
	}
	c.entries[key] = entry[V]{value: v, insertedAt: producedAt}
}

// Clear removes every entry. Computations already in flight finish but their
// results are not stored.
func (c *ResultCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
	c.generation++
}

// SetTTL changes the expiry applied to existing and future entries.
func (c *ResultCache[V]) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()
}

func (c *ResultCache[V]) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}

// Len counts stored entries, including expired ones not yet swept.
func (c *ResultCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
