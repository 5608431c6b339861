package handlers

import (
	"net/http"
	"runtime"
	"time"

	"preview-engine/internal/startup"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Cache summary
	MemoryCacheEntries int   `json:"memoryCacheEntries"`
	DiskCacheEnabled   bool  `json:"diskCacheEnabled"`
	DiskCacheEntries   int   `json:"diskCacheEntries"`
	DiskCacheBytes     int64 `json:"diskCacheBytes"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	stats := h.previewer.Stats()

	writeJSON(w, HealthResponse{
		Status:             "healthy",
		Version:            startup.Version,
		Uptime:             time.Since(h.startTime).Round(time.Second).String(),
		MemoryCacheEntries: stats.MemoryEntries,
		DiskCacheEnabled:   stats.DiskEnabled,
		DiskCacheEntries:   stats.DiskEntries,
		DiskCacheBytes:     stats.DiskBytes,
		GoVersion:          runtime.Version(),
		NumCPU:             runtime.NumCPU(),
		NumGoroutine:       runtime.NumGoroutine(),
	})
}

// LivenessCheck is the minimal probe for orchestrators.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, "alive")
}

// ReadinessCheck reports whether the service can accept work.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, "ready")
}
