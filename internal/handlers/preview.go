package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"preview-engine/internal/logging"
	"preview-engine/internal/previewer"
)

// GetPreview handles GET /api/preview?path=<file>. Optional query flags:
// skip_cache=1 forces regeneration, skip_metadata=1 omits the metadata map.
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "path parameter is required", http.StatusBadRequest)
		return
	}

	opts := previewer.GetOptions{
		SkipCache:    r.URL.Query().Get("skip_cache") == "1",
		SkipMetadata: r.URL.Query().Get("skip_metadata") == "1",
	}

	rec, err := h.previewer.GetWith(path, opts)
	if err != nil {
		if errors.Is(err, previewer.ErrShutDown) {
			writeJSONError(w, "service is shutting down", http.StatusServiceUnavailable)
			return
		}
		logging.Error("preview for %s failed: %v", path, err)
		writeJSONError(w, "preview generation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rec)
}

// PreloadRequest is the body of POST /api/preload.
type PreloadRequest struct {
	Paths []string `json:"paths"`
}

// PreloadResponse identifies the accepted batch.
type PreloadResponse struct {
	BatchID string `json:"batchId"`
	Count   int    `json:"count"`
}

// Preload handles POST /api/preload. Generation happens in the background;
// the response only acknowledges the batch.
func (h *Handlers) Preload(w http.ResponseWriter, r *http.Request) {
	var req PreloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Paths) == 0 {
		writeJSONError(w, "paths list is empty", http.StatusBadRequest)
		return
	}

	batchID, err := h.previewer.Preload(req.Paths, nil)
	if err != nil {
		writeJSONError(w, "service is shutting down", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, PreloadResponse{BatchID: batchID, Count: len(req.Paths)})
}
