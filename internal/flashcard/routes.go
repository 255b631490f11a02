package flashcard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/pestcert-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/sample", h.Sample)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware, auth.RequireAdmin)

		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
