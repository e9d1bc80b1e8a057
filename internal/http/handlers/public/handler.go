// Package public holds the visitor-facing API handlers.
package public

import "github.com/stagelight/boxoffice/internal/provider"

// Handler serves the public API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
