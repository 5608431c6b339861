// Package preview defines the preview record data model shared by the
// extractors, the cache, and the coordinator.
//
// A Record is a tagged union: exactly one kind-specific section is populated
// per record, selected by the Kind field. Error records carry only an error
// message (and the file size when it was known).
package preview
