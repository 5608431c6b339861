package extract

import (
	"path/filepath"
	"strings"
	"sync/atomic"

	"preview-engine/internal/logging"
	"preview-engine/internal/preview"
)

// Extractor is a format-specific preview generator plus its applicability
// predicate. Supports is pure; Generate never panics or returns a Go error,
// capturing internal failures as error-kind records instead.
type Extractor interface {
	// Name identifies the extractor in logs and metrics.
	Name() string
	// Supports reports whether this extractor can handle the path.
	Supports(path string) bool
	// Generate produces the preview record for the path.
	Generate(path string) *preview.Record
	// Generations returns how many times Generate has been called. Used by
	// cache tests to verify that hits skip extraction entirely.
	Generations() int64
}

// counter provides the Generations instrumentation shared by all extractors.
type counter struct {
	n atomic.Int64
}

func (c *counter) Generations() int64 {
	return c.n.Load()
}

func (c *counter) inc() {
	c.n.Add(1)
}

// Dispatcher selects exactly one extractor per path by iterating a fixed
// priority list and falling back to the generic extractor. Selection is
// deterministic for a fixed registration order and never fails; whether the
// chosen extractor's external tooling is present is the extractor's own
// concern.
type Dispatcher struct {
	extractors []Extractor
	fallback   Extractor
}

// NewDispatcher registers the extractors in priority order. The set is fixed
// at construction; there is no dynamic registration.
func NewDispatcher(extractors ...Extractor) *Dispatcher {
	return &Dispatcher{
		extractors: extractors,
		fallback:   NewGenericExtractor(),
	}
}

// NewDefaultDispatcher registers the standard extractor set in the standard
// priority order: image, document, media, archive, text.
func NewDefaultDispatcher() *Dispatcher {
	return NewDispatcher(
		NewImageExtractor(),
		NewDocumentExtractor(),
		NewMediaExtractor(),
		NewArchiveExtractor(),
		NewTextExtractor(),
	)
}

// Select returns the first extractor whose predicate matches the path, or
// the generic fallback when none do.
func (d *Dispatcher) Select(path string) Extractor {
	for _, e := range d.extractors {
		if e.Supports(path) {
			return e
		}
	}
	logging.Debug("no extractor matched %s, using generic fallback", path)
	return d.fallback
}

// Fallback returns the generic extractor used when no predicate matches.
func (d *Dispatcher) Fallback() Extractor {
	return d.fallback
}

// Extractors returns the registered priority list (excluding the fallback).
func (d *Dispatcher) Extractors() []Extractor {
	return d.extractors
}

// lowerExt returns the lowercase extension of path, including the dot.
func lowerExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
