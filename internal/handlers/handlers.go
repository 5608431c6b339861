package handlers

import (
	"time"

	"preview-engine/internal/previewer"
)

// Handlers carries the dependencies shared by the HTTP endpoints.
type Handlers struct {
	previewer *previewer.Previewer
	startTime time.Time
}

func New(p *previewer.Previewer) *Handlers {
	return &Handlers{
		previewer: p,
		startTime: time.Now(),
	}
}
