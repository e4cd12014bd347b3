package audit

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers audit routes on the /v1/answers subrouter
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/audit", func(r chi.Router) {
		r.Get("/", h.ListRecords)
		r.Get("/report", h.DownloadReport)
	})
}
