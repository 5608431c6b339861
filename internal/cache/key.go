package cache

import (
	"crypto/md5" //nolint:gosec // MD5 used for cache key generation, not security
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Key is a deterministic fingerprint of (absolute path, mtime). Identical
// keys imply identical file content at generation time; any mtime change
// yields a new key, so stale-content hits cannot occur without content
// hashing.
type Key string

// NewKey builds the fingerprint for a path and its modification time.
func NewKey(absPath string, modTime time.Time) Key {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%d", absPath, modTime.UnixNano()))) //nolint:gosec // not security
	return Key(fmt.Sprintf("%x", sum))
}

// KeyForFile stats the file and returns its current cache key along with
// the observed size. The path is made absolute first so the same file
// reached through different relative paths shares one key.
func KeyForFile(path string) (Key, int64, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", 0, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", 0, err
	}
	return NewKey(absPath, info.ModTime()), info.Size(), nil
}
