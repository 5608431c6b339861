// Package metadata enriches successful preview records with a cross-format
// metadata map: filesystem timestamps for everything, plus EXIF for images,
// embedded tags for media, and document properties for PDFs.
//
// The augmenter only ever writes the record's Metadata field; the
// kind-specific sections set by the extractor are left untouched. Error
// records are never augmented.
package metadata
