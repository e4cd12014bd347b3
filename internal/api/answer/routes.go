package answer

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers answer routes on the /v1/answers subrouter
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/", h.GenerateAnswer)
	r.Get("/stats", h.GetStats)
}
