package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/pestcert-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.AuthMiddleware, auth.RequireAdmin)

	r.Post("/csv/{table}", h.ImportCSV)
	r.Post("/images", h.UploadImages)

	return r
}
