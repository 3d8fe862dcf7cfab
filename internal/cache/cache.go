package cache

import (
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/23skdu/longbow-halfprec/half"
)

// VectorCache defines a generic interface for caching narrowed vectors.
type VectorCache interface {
	// Get retrieves a vector from the cache.
	Get(key string) ([]half.Float16, bool)
	// Put stores a vector in the cache.
	Put(key string, vec []half.Float16)
	// Size returns the number of items in the cache.
	Size() int
}

// Key derives a cache key from a request payload.
func Key(payload []byte) string {
	return strconv.FormatUint(xxh3.Hash(payload), 16)
}

// MapCache is a simple in-memory implementation of VectorCache.
// A positive limit bounds the number of entries; once full, Put evicts an
// arbitrary entry.
type MapCache struct {
	data  map[string][]half.Float16
	limit int
	mu    sync.RWMutex
}

func NewMapCache(limit int) *MapCache {
	return &MapCache{
		data:  make(map[string][]half.Float16),
		limit: limit,
	}
}

func (c *MapCache) Get(key string) ([]half.Float16, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Return copy to avoid modification of cached value
	if v, ok := c.data[key]; ok {
		dst := make([]half.Float16, len(v))
		copy(dst, v)
		return dst, true
	}
	return nil, false
}

func (c *MapCache) Put(key string, vec []half.Float16) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; !ok && c.limit > 0 && len(c.data) >= c.limit {
		for k := range c.data {
			delete(c.data, k)
			break
		}
	}

	dst := make([]half.Float16, len(vec))
	copy(dst, vec)
	c.data[key] = dst
}

func (c *MapCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
