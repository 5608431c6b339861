package handlers

import (
	"net/http"

	"preview-engine/internal/startup"
)

// GetVersion returns the build information.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, startup.GetBuildInfo())
}
