// Package handlers implements the HTTP API: preview lookup, preload
// batches, cache statistics and maintenance, and health probes.
package handlers
