package reconcile

import (
	"sync"

	"pazlcollab/internal/domain"
)

// Entry is the loop's last observed view of one profile. Status is the
// parsed enum, so decorated and plain spellings of the same status never
// read as a transition.
type Entry struct {
	Status   domain.Status
	Locale   string
	RecordID string
}

// Cache holds last observed statuses between cycles. It is injected so tests
// control its contents and a shared backend can replace the in-process map
// without touching the loop.
type Cache interface {
	Get(userID int64) (Entry, bool)
	Put(userID int64, e Entry)
	Delete(userID int64)
	Reset()
	Snapshot() map[int64]Entry
}

// MemoryCache is the default in-process cache.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[int64]Entry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[int64]Entry)}
}

func (c *MemoryCache) Get(userID int64) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[userID]
	return e, ok
}

func (c *MemoryCache) Put(userID int64, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[userID] = e
}

func (c *MemoryCache) Delete(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, userID)
}

func (c *MemoryCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[int64]Entry)
}

func (c *MemoryCache) Snapshot() map[int64]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int64]Entry, len(c.m))
	for k, v := range c.m {
		out[k] = v
	}
	return out
}
