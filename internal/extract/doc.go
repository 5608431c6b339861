// Package extract implements the format-specific preview extractors and the
// dispatcher that selects exactly one of them per path.
//
// Extractors for:
//   - Images: dimensions, color mode, flattened JPEG thumbnail (libvips fast
//     path when available, pure-Go decode otherwise)
//   - Documents: PDF / DOCX / XLSX page counts, properties, first-page text,
//     optional page-1 raster via pdftoppm
//   - Media: tag-library fast path plus ffprobe for duration/codec/resolution
//   - Archives: zip/tar listings natively, 7z/rar via the 7z binary
//   - Text: capped read with encoding detection and syntax highlighting
//
// Generate never returns a Go error to the caller; failures are captured in
// an error-kind record. External tools are probed once at construction and
// their absence degrades output instead of failing generation.
package extract
