package cache

import (
	"time"

	"preview-engine/internal/logging"
	"preview-engine/internal/metrics"
	"preview-engine/internal/preview"
)

// Store is the two-tier cache consulted memory-first on read and populated
// memory-first on write. The disk tier is optional; when absent it is
// skipped entirely.
type Store struct {
	memory *MemoryCache
	disk   *DiskCache
}

// Stats reports cache occupancy for observability.
type Stats struct {
	MemoryEntries  int   `json:"memoryEntries"`
	MemoryCapacity int   `json:"memoryCapacity"`
	DiskEnabled    bool  `json:"diskEnabled"`
	DiskEntries    int   `json:"diskEntries"`
	DiskBytes      int64 `json:"diskBytes"`
}

// NewStore builds the two-tier store. An empty cacheDir disables the disk
// tier; a disk tier that fails to initialize is logged and dropped rather
// than failing construction.
func NewStore(memorySize int, ttl time.Duration, cacheDir string) *Store {
	s := &Store{
		memory: NewMemoryCache(memorySize, ttl),
	}

	if cacheDir != "" {
		disk, err := NewDiskCache(cacheDir, ttl)
		if err != nil {
			logging.Warn("disk cache disabled: %v", err)
		} else {
			s.disk = disk
			logging.Info("disk cache enabled at %s", cacheDir)
		}
	}

	return s
}

// Get returns a copy of the cached record for key, or nil on a miss. A disk
// hit promotes the record back into the memory tier.
func (s *Store) Get(key Key) *preview.Record {
	if record := s.memory.Get(key); record != nil {
		metrics.CacheHits.WithLabelValues("memory").Inc()
		return record
	}

	if s.disk != nil {
		if record := s.disk.Get(key); record != nil {
			metrics.CacheHits.WithLabelValues("disk").Inc()
			s.memory.Put(key, record)
			return record.Clone()
		}
	}

	metrics.CacheMisses.Inc()
	return nil
}

// Put writes the record to every configured tier, memory first.
func (s *Store) Put(key Key, record *preview.Record) {
	s.memory.Put(key, record)
	if s.disk != nil {
		s.disk.Put(key, record)
	}
}

// Delete removes the key from every configured tier.
func (s *Store) Delete(key Key) {
	s.memory.Delete(key)
	if s.disk != nil {
		s.disk.Delete(key)
	}
}

// Clear removes all memory entries and, unless memoryOnly is set, all disk
// tier files as well.
func (s *Store) Clear(memoryOnly bool) {
	s.memory.Clear()
	if !memoryOnly && s.disk != nil {
		if err := s.disk.Clear(); err != nil {
			logging.Warn("disk cache clear failed: %v", err)
		}
	}
}

// Stats returns current occupancy across tiers and refreshes the disk
// gauges.
func (s *Store) Stats() Stats {
	stats := Stats{
		MemoryEntries:  s.memory.Len(),
		MemoryCapacity: s.memory.Capacity(),
	}

	if s.disk != nil {
		stats.DiskEnabled = true
		stats.DiskEntries, stats.DiskBytes = s.disk.Stats()
		metrics.DiskCacheEntries.Set(float64(stats.DiskEntries))
		metrics.DiskCacheBytes.Set(float64(stats.DiskBytes))
	}

	return stats
}
