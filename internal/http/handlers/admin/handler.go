package admin

import "github.com/malcolmm20/farmlink/internal/provider"

// Handler serves the management API: user administration and order
// oversight.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
