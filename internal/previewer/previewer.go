package previewer

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"preview-engine/internal/cache"
	"preview-engine/internal/extract"
	"preview-engine/internal/logging"
	"preview-engine/internal/metadata"
	"preview-engine/internal/metrics"
	"preview-engine/internal/preview"
	"preview-engine/internal/workers"

	"github.com/google/uuid"
)

// ErrShutDown is returned by every operation after Shutdown has completed.
var ErrShutDown = errors.New("previewer already shut down")

// GetOptions tunes a single lookup. The zero value means "use the cache and
// attach metadata", matching the common path.
type GetOptions struct {
	// SkipCache bypasses the cache lookup, forcing a fresh generation.
	SkipCache bool
	// SkipMetadata leaves the augmenter out of the pipeline.
	SkipMetadata bool
}

// Previewer coordinates preview generation and caching.
type Previewer struct {
	dispatcher *extract.Dispatcher
	augmenter  *metadata.Augmenter
	store      *cache.Store
	pool       *workers.Pool

	shutdown atomic.Bool
}

// Options configures a Previewer.
type Options struct {
	// CacheDir enables the disk cache tier when non-empty.
	CacheDir string
	// MemoryCacheSize bounds the memory tier entry count (default 100).
	MemoryCacheSize int
	// TTL is the cache entry lifetime (default 24h).
	TTL time.Duration
	// MaxWorkers bounds the async pool (default: host parallelism).
	MaxWorkers int
	// Dispatcher overrides the default extractor set (tests).
	Dispatcher *extract.Dispatcher
}

// New creates a Previewer with the standard extractor set unless overridden.
func New(opts Options) *Previewer {
	if opts.MemoryCacheSize <= 0 {
		opts.MemoryCacheSize = 100
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = workers.ForCPU(0)
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = extract.NewDefaultDispatcher()
	}

	logging.Info("previewer starting: %d workers, memory cache %d entries, ttl %s",
		opts.MaxWorkers, opts.MemoryCacheSize, opts.TTL)

	return &Previewer{
		dispatcher: opts.Dispatcher,
		augmenter:  metadata.New(),
		store:      cache.NewStore(opts.MemoryCacheSize, opts.TTL, opts.CacheDir),
		pool:       workers.NewPool(opts.MaxWorkers, opts.MaxWorkers*4),
	}
}

// Get generates or retrieves the preview for path with default options.
func (p *Previewer) Get(path string) (*preview.Record, error) {
	return p.GetWith(path, GetOptions{})
}

// GetWith generates or retrieves the preview for path. It blocks the
// calling goroutine for the duration of any file I/O and external tool
// invocation; use GetAsync to keep the caller responsive.
func (p *Previewer) GetWith(path string, opts GetOptions) (*preview.Record, error) {
	if p.shutdown.Load() {
		return nil, ErrShutDown
	}

	key, _, err := cache.KeyForFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return preview.NewError("file not found", 0), nil
		}
		return preview.NewError(err.Error(), 0), nil
	}

	if !opts.SkipCache {
		if rec := p.store.Get(key); rec != nil {
			logging.Debug("cache hit for %s", path)
			return rec, nil
		}
	}

	extractor := p.dispatcher.Select(path)
	logging.Debug("generating %s preview for %s", extractor.Name(), path)

	start := time.Now()
	rec := extractor.Generate(path)
	metrics.GenerationDuration.WithLabelValues(extractor.Name()).Observe(time.Since(start).Seconds())

	status := "success"
	if rec.IsError() {
		status = "error"
	}
	metrics.GenerationsTotal.WithLabelValues(string(rec.Kind), status).Inc()

	if !rec.IsError() {
		if !opts.SkipMetadata {
			p.augmenter.Augment(path, rec)
		}
		p.store.Put(key, rec)
	}

	return rec, nil
}

// Future is the handle for an asynchronous generation.
type Future struct {
	done chan struct{}
	rec  *preview.Record
	err  error
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available.
func (f *Future) Wait() (*preview.Record, error) {
	<-f.done
	return f.rec, f.err
}

// GetAsync submits the same logic as GetWith to the worker pool. At most
// the pool's worker count of generations run simultaneously system-wide.
func (p *Previewer) GetAsync(path string, opts GetOptions) (*Future, error) {
	if p.shutdown.Load() {
		return nil, ErrShutDown
	}

	f := &Future{done: make(chan struct{})}
	err := p.pool.Submit(func() {
		f.rec, f.err = p.GetWith(path, opts)
		close(f.done)
	})
	if err != nil {
		return nil, ErrShutDown
	}
	return f, nil
}

// Preload fires a fire-and-forget batch generation. onDone is invoked once
// per completed item in arrival order (not submission order); duplicate
// paths are each processed independently. The returned id identifies the
// batch in logs.
func (p *Previewer) Preload(paths []string, onDone func(path string, rec *preview.Record)) (string, error) {
	if p.shutdown.Load() {
		return "", ErrShutDown
	}

	batchID := uuid.NewString()
	logging.Debug("preload batch %s: %d paths", batchID, len(paths))

	// Callbacks are serialized so completion order is observable.
	var cbMu sync.Mutex

	go func() {
		for _, path := range paths {
			err := p.pool.Submit(func() {
				rec, err := p.GetWith(path, GetOptions{})
				if err != nil {
					// Pool raced with Shutdown; the batch is abandoned.
					return
				}
				if onDone != nil {
					cbMu.Lock()
					onDone(path, rec)
					cbMu.Unlock()
				}
			})
			if err != nil {
				logging.Debug("preload batch %s abandoned: %v", batchID, err)
				return
			}
		}
	}()

	return batchID, nil
}

// Stats reports current cache occupancy.
func (p *Previewer) Stats() cache.Stats {
	return p.store.Stats()
}

// ClearCache removes all cached entries; with memoryOnly set, disk files
// are kept.
func (p *Previewer) ClearCache(memoryOnly bool) error {
	if p.shutdown.Load() {
		return ErrShutDown
	}
	p.store.Clear(memoryOnly)
	return nil
}

// Shutdown drains in-flight work and releases the worker pool. It must be
// the terminal call on the previewer; all later calls fail with ErrShutDown
// rather than silently restarting.
func (p *Previewer) Shutdown() error {
	if !p.shutdown.CompareAndSwap(false, true) {
		return ErrShutDown
	}
	logging.Info("previewer shutting down, draining in-flight work")
	p.pool.Shutdown()
	return nil
}
