package analogy

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/adalundhe/volcans/core/weights"
)

// DefaultCacheSize is the default number of results kept by a Cache.
const DefaultCacheSize = 128

type cacheKey struct {
	target int
	scheme weights.Scheme
}

// Cache memoises results per target and weighting scheme. The underlying LRU
// is safe for concurrent use.
type Cache struct {
	engine  *Engine
	results *lru.Cache[cacheKey, *Result]

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache wraps engine with an LRU of the given size (DefaultCacheSize if <= 0).
func NewCache(engine *Engine, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	results, err := lru.New[cacheKey, *Result](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &Cache{engine: engine, results: results}, nil
}

// Engine returns the wrapped engine.
func (c *Cache) Engine() *Engine {
	return c.engine
}

// Combine returns the cached result for target and scheme, computing it on
// a miss.
func (c *Cache) Combine(target int, scheme weights.Scheme) (*Result, error) {
	key := cacheKey{target: target, scheme: scheme}
	if r, ok := c.results.Get(key); ok {
		c.hits.Add(1)
		c.engine.logger.Debug("analogy cache hit", "target", r.Target.Name)
		return r, nil
	}

	c.misses.Add(1)
	r, err := c.engine.Combine(target, scheme)
	if err != nil {
		return nil, err
	}
	c.results.Add(key, r)
	return r, nil
}

// Stats returns the hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.results.Len()
}
