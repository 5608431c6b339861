// Package cache implements the two-tier preview cache: a bounded in-memory
// LRU with per-store TTL, and an optional on-disk tier keyed by the same
// fingerprint with the cache file's own modification time as the TTL clock.
//
// Keys embed the source file's modification time, so a key is only ever hit
// for the exact (path, mtime) pair it was generated from. A modification
// that leaves mtime untouched is indistinguishable from no modification;
// this is an accepted limitation of the mtime-based fingerprint.
//
// The disk tier is not safe against a second engine instance sharing the
// same cache directory (single-instance assumption).
package cache
