package extract

import (
	"os"

	"preview-engine/internal/preview"
)

// GenericExtractor is the dispatch fallback. It matches everything and never
// fails: the record carries only the extension and file size.
type GenericExtractor struct {
	counter
}

// NewGenericExtractor creates the fallback extractor.
func NewGenericExtractor() *GenericExtractor {
	return &GenericExtractor{}
}

// Name implements Extractor.
func (e *GenericExtractor) Name() string { return "generic" }

// Supports implements Extractor. The fallback accepts any path.
func (e *GenericExtractor) Supports(string) bool { return true }

// Generate implements Extractor.
func (e *GenericExtractor) Generate(path string) *preview.Record {
	e.inc()

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	return preview.NewGeneric(lowerExt(path), size)
}
