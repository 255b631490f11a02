package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/content", h.Get)
	r.Post("/content", h.Replace)
	r.Get("/health", h.Health)

	return r
}
