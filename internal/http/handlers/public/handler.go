package public

import "github.com/malcolmm20/farmlink/internal/provider"

// Handler serves the consumer-facing API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
