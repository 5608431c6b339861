// Package filetypes maps file extensions to preview categories and MIME
// types. The tables are the single source of truth used by the extractor
// predicates.
package filetypes
