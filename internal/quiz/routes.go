package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/pestcert-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.Start)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Discard)
		r.Post("/{id}/answer", h.Answer)
		r.Post("/{id}/next", h.Next)
		r.Post("/{id}/expire", h.Expire)
		r.Get("/{id}/result", h.Result)
		r.Post("/{id}/reset", h.Reset)
	})

	r.With(auth.AuthMiddleware, auth.RequireAdmin).Get("/attempts", h.ListAttempts)

	return r
}
