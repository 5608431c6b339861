package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"preview-engine/internal/logging"
	"preview-engine/internal/metrics"
	"preview-engine/internal/preview"

	"github.com/vmihailenco/msgpack/v5"
)

const diskEntryExt = ".pv"

// DiskCache is the optional on-disk tier: one msgpack-serialized record per
// key under the cache directory. The cache file's own modification time is
// the TTL clock, so no timestamp travels in the payload.
type DiskCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewDiskCache creates the disk tier rooted at dir, creating the directory
// if needed. A directory creation failure disables the tier (returns an
// error for the caller to log and continue without it).
func NewDiskCache(dir string, ttl time.Duration) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (c *DiskCache) entryPath(key Key) string {
	return filepath.Join(c.dir, string(key)+diskEntryExt)
}

// Get returns the stored record, or nil on a miss. Expired files are
// deleted on read. Read or decode failures are treated as misses.
func (c *DiskCache) Get(key Key) *preview.Record {
	path := c.entryPath(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if c.now().Sub(info.ModTime()) >= c.ttl {
		if err := os.Remove(path); err != nil {
			logging.Warn("failed to remove expired cache file %s: %v", path, err)
		}
		metrics.CacheExpirations.WithLabelValues("disk").Inc()
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logging.Warn("disk cache read failed for %s: %v", path, err)
		return nil
	}

	var record preview.Record
	if err := msgpack.Unmarshal(data, &record); err != nil {
		logging.Warn("disk cache decode failed for %s: %v, removing", path, err)
		if err := os.Remove(path); err != nil {
			logging.Debug("failed to remove corrupt cache file %s: %v", path, err)
		}
		return nil
	}

	return &record
}

// Put serializes the record to the key's file. Metadata values are coerced
// to strings on this tier only; the memory tier keeps the original types.
// Write failures are logged and otherwise ignored.
func (c *DiskCache) Put(key Key, record *preview.Record) {
	stored := record.Clone()
	if stored.Metadata != nil {
		coerced := make(map[string]any, len(stored.Metadata))
		for k, v := range stored.Metadata {
			coerced[k] = coerceValue(v)
		}
		stored.Metadata = coerced
	}

	data, err := msgpack.Marshal(stored)
	if err != nil {
		logging.Warn("disk cache encode failed for %s: %v", key, err)
		return
	}

	if err := os.WriteFile(c.entryPath(key), data, 0o644); err != nil {
		logging.Warn("disk cache write failed for %s: %v", key, err)
	}
}

// coerceValue keeps msgpack-native scalar types and stringifies the rest.
func coerceValue(v any) any {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Delete removes the key's cache file if present.
func (c *DiskCache) Delete(key Key) {
	if err := os.Remove(c.entryPath(key)); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove cache file for %s: %v", key, err)
	}
}

// Clear deletes all cache files in the directory.
func (c *DiskCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), diskEntryExt) {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logging.Warn("failed to remove cache file %s: %v", path, err)
		}
	}
	return nil
}

// Stats returns the current entry count and total size in bytes.
func (c *DiskCache) Stats() (count int, bytes int64) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, 0
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), diskEntryExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		bytes += info.Size()
	}
	return count, bytes
}
