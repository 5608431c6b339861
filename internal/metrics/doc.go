// Package metrics defines the Prometheus metrics exposed by the preview
// engine. All metrics are registered at init time via promauto and live
// under the preview_engine_ namespace.
package metrics
