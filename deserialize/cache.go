package deserialize

import (
	"maps"
	"sync"
	"sync/atomic"

	"github.com/viant/databind"
)

// Cache maps types to ready strategies. Lookups read an immutable snapshot
// without locking; inserts update the shared map and invalidate the snapshot.
type Cache struct {
	mu       sync.Mutex
	shared   map[databind.Type]*Strategy
	snapshot atomic.Pointer[map[databind.Type]*Strategy]
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{shared: map[databind.Type]*Strategy{}}
}

// Find returns cached strategy for t. The first lookup after an insert rebuilds the
// snapshot under the lock; later lookups read it without locking.
func (c *Cache) Find(t databind.Type) (*Strategy, bool) {
	snapshot := c.snapshot.Load()
	if snapshot == nil {
		snapshot = c.refresh()
	}
	s, ok := (*snapshot)[t]
	return s, ok
}

func (c *Cache) refresh() *map[databind.Type]*Strategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snapshot := c.snapshot.Load(); snapshot != nil {
		return snapshot
	}
	snapshot := maps.Clone(c.shared)
	c.snapshot.Store(&snapshot)
	return &snapshot
}

// Insert stores strategy for t.
func (c *Cache) Insert(t databind.Type, s *Strategy) {
	c.mu.Lock()
	c.shared[t] = s
	c.snapshot.Store(nil)
	c.mu.Unlock()
}

func (c *Cache) insertAll(strategies map[databind.Type]*Strategy) {
	if len(strategies) == 0 {
		return
	}
	c.mu.Lock()
	for t, s := range strategies {
		c.shared[t] = s
	}
	c.snapshot.Store(nil)
	c.mu.Unlock()
}

// Flush removes every cached strategy and returns how many were removed.
func (c *Cache) Flush() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.shared)
	clear(c.shared)
	c.snapshot.Store(nil)
	return n
}

// Len returns number of cached strategies.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.shared)
}
