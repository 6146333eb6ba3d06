// Package cache memoizes dataset loads per source location.
package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/spdash/spdash/internal/dataset"
	"github.com/spdash/spdash/internal/normalizer"
	"golang.org/x/sync/singleflight"
)

// Loader loads and cleans the dataset at a location.
type Loader interface {
	Load(ctx context.Context, location string) (*dataset.Dataset, normalizer.Status)
}

type entry struct {
	ds     *dataset.Dataset
	status normalizer.Status
}

// Cache holds at most one load result per location. Failed loads are
// cached too, so an unreachable source is not retried until invalidated.
type Cache struct {
	loader Loader
	group  singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry
	// gens counts invalidations per location; epoch counts clears. A load
	// only stores its result if neither moved while it ran.
	gens  map[string]uint64
	epoch uint64
}

// New creates an empty cache in front of loader.
func New(loader Loader) *Cache {
	return &Cache{
		loader:  loader,
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
	}
}

// Get returns the dataset for location, loading it on first use.
// Concurrent callers for the same location share a single load.
func (c *Cache) Get(ctx context.Context, location string) (*dataset.Dataset, normalizer.Status) {
	if e, ok := c.lookup(location); ok {
		return e.ds, e.status
	}

	// The shared load outlives any single caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do(location, func() (interface{}, error) {
		if e, ok := c.lookup(location); ok {
			return e, nil
		}
		gen := c.generation(location)
		ds, status := c.loader.Load(loadCtx, location)
		e := entry{ds: ds, status: status}

		c.mu.Lock()
		if c.gens[location] == gen.location && c.epoch == gen.epoch {
			c.entries[location] = e
		}
		c.mu.Unlock()
		return e, nil
	})

	e := v.(entry)
	return e.ds, e.status
}

// Invalidate forgets the result for location. The next Get reloads it.
func (c *Cache) Invalidate(location string) {
	c.mu.Lock()
	delete(c.entries, location)
	c.gens[location]++
	c.mu.Unlock()
	c.group.Forget(location)
}

// Clear forgets every cached result.
func (c *Cache) Clear() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.entries = make(map[string]entry)
	c.epoch++
	c.mu.Unlock()

	for _, k := range keys {
		c.group.Forget(k)
	}
}

// Keys returns the cached locations in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type stamp struct {
	location uint64
	epoch    uint64
}

func (c *Cache) generation(location string) stamp {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return stamp{location: c.gens[location], epoch: c.epoch}
}

func (c *Cache) lookup(location string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[location]
	return e, ok
}
