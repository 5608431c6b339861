// Package previewer is the engine's public entry point. It orchestrates
// cache lookup, dispatch, generation, metadata augmentation, and cache
// writes, and offers both a synchronous Get and a non-blocking GetAsync /
// Preload surface backed by a bounded worker pool.
//
// Every call returns some record: failures inside generation surface as
// error-kind records, never as Go errors. The only hard failures are
// programmer errors such as calling into the previewer after Shutdown.
//
// Concurrent identical requests are not coalesced; two racing misses for
// one key may both generate and both write, which is benign because
// generation is idempotent for a fixed (path, mtime).
package previewer
