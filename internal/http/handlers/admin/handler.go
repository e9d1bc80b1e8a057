// Package admin holds the back-office API handlers.
package admin

import "github.com/stagelight/boxoffice/internal/provider"

// Handler serves the admin API.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
