// Package ristretto implements the cache port with an in-process ristretto
// cache. It fronts the docker CLI probe results.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache adapts ristretto to the cache port. Values are costed by byte length,
// so MaxCost bounds resident bytes rather than entry count.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// New creates a cache bounded to maxCostBytes of stored values. Counter space
// assumes kilobyte-scale JSON payloads, ten counters per expected entry, with
// a floor for tiny budgets.
func New(maxCostBytes int64) (*Cache, error) {
	counters := maxCostBytes / 1024 * 10
	if counters < 1024 {
		counters = 1024
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: counters,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

// Get reports the cached value for key, if any.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := c.c.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores value under key for ttl. Ristretto applies writes through a
// buffer; Wait makes the entry visible before returning. A probe cache needs
// that: the refresh that just wrote must be readable by the next request, and
// at one write per probe interval the barrier costs nothing.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.c.SetWithTTL(key, value, int64(len(value)), ttl)
	c.c.Wait()
	return nil
}

// Delete drops key from the cache.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Del(key)
	return nil
}

// Close releases the cache's internal goroutines.
func (c *Cache) Close() {
	c.c.Close()
}
