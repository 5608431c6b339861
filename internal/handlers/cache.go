package handlers

import (
	"net/http"
)

// CacheStats handles GET /api/cache/stats.
func (h *Handlers) CacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.previewer.Stats())
}

// ClearCache handles DELETE /api/cache. With ?memory_only=1 the disk tier
// is left untouched.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	memoryOnly := r.URL.Query().Get("memory_only") == "1"

	if err := h.previewer.ClearCache(memoryOnly); err != nil {
		writeJSONError(w, "service is shutting down", http.StatusServiceUnavailable)
		return
	}

	writeJSONStatus(w, "cleared")
}
