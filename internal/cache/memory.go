package cache

import (
	"container/list"
	"sync"
	"time"

	"preview-engine/internal/metrics"
	"preview-engine/internal/preview"
)

// memoryEntry is a single memory-tier entry.
type memoryEntry struct {
	key       Key
	record    *preview.Record
	createdAt time.Time
}

// MemoryCache is a bounded map with strict LRU eviction by last read and a
// lazy per-entry TTL check. All access is serialized through one mutex; the
// critical section covers only lookup-or-insert, so two racing misses for
// the same key may both generate and both write (last writer wins).
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front = most recently read
	entries  map[Key]*list.Element
	now      func() time.Time
}

// NewMemoryCache creates a memory tier holding at most capacity entries.
// Entries older than ttl are treated as misses on the next lookup; a ttl of
// zero expires everything immediately.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryCache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		entries:  make(map[Key]*list.Element),
		now:      time.Now,
	}
}

// Get returns a copy of the cached record, or nil if the key is absent or
// expired. A hit refreshes the entry's LRU position.
func (c *MemoryCache) Get(key Key) *preview.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil
	}

	entry := elem.Value.(*memoryEntry)
	if c.now().Sub(entry.createdAt) >= c.ttl {
		c.order.Remove(elem)
		delete(c.entries, key)
		metrics.CacheExpirations.WithLabelValues("memory").Inc()
		return nil
	}

	c.order.MoveToFront(elem)
	return entry.record.Clone()
}

// Put stores a copy of the record, evicting the least-recently-read entry
// when the tier is full.
func (c *MemoryCache) Put(key Key, record *preview.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.record = record.Clone()
		entry.createdAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			evicted := oldest.Value.(*memoryEntry)
			c.order.Remove(oldest)
			delete(c.entries, evicted.key)
			metrics.CacheEvictions.Inc()
		}
	}

	elem := c.order.PushFront(&memoryEntry{
		key:       key,
		record:    record.Clone(),
		createdAt: c.now(),
	})
	c.entries[key] = elem
}

// Delete removes an entry if present.
func (c *MemoryCache) Delete(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[Key]*list.Element)
}

// Len returns the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the configured maximum entry count.
func (c *MemoryCache) Capacity() int {
	return c.capacity
}
