package directory

import (
	"context"
	"sync"
	"time"

	"gym-booking/internal/pkg/clock"

	"golang.org/x/sync/singleflight"
)

// CachingResolver memoises successful resolutions for ttl. Concurrent misses
// for the same entity share one catalog round trip. Failures are not cached.
type CachingResolver struct {
	next  Resolver
	ttl   time.Duration
	clock clock.Clock

	mu      sync.RWMutex
	entries map[string]cacheEntry
	// generation advances on every Invalidate. A fill started under an older
	// generation must not be stored.
	generation uint64
	// seen holds every entity name ever looked up, for Forget.
	seen  map[string]struct{}
	group singleflight.Group
}

type cacheEntry struct {
	mapping   *Mapping
	expiresAt time.Time
}

func NewCachingResolver(next Resolver, ttl time.Duration, clk clock.Clock) *CachingResolver {
	return &CachingResolver{
		next:    next,
		ttl:     ttl,
		clock:   clk,
		entries: make(map[string]cacheEntry),
		seen:    make(map[string]struct{}),
	}
}

// Resolve returns the cached mapping or joins the shared lookup for entity.
// The shared lookup is detached from any single caller's cancellation; each
// caller stops waiting when its own ctx is done.
func (c *CachingResolver) Resolve(ctx context.Context, entity Entity) (*Mapping, error) {
	if m, ok := c.lookup(entity.Name); ok {
		return m, nil
	}

	c.mu.Lock()
	c.seen[entity.Name] = struct{}{}
	c.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(entity.Name, func() (any, error) {
		if m, ok := c.lookup(entity.Name); ok {
			return m, nil
		}
		c.mu.RLock()
		gen := c.generation
		c.mu.RUnlock()

		m, err := c.next.Resolve(shared, entity)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation == gen {
			c.entries[entity.Name] = cacheEntry{mapping: m, expiresAt: c.clock.Now().Add(c.ttl)}
		}
		c.mu.Unlock()
		return m, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Mapping), nil
	}
}

// Invalidate drops every cached mapping, forcing rediscovery on next use.
// Lookups already in flight still answer their callers but are not cached.
func (c *CachingResolver) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries = make(map[string]cacheEntry)
	for name := range c.seen {
		c.group.Forget(name)
	}
}

func (c *CachingResolver) lookup(name string) (*Mapping, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok || !c.clock.Now().Before(e.expiresAt) {
		return nil, false
	}
	return e.mapping, true
}
