package router

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/pestcert-lambda/internal/admin"
	"github.com/saulo-duarte/pestcert-lambda/internal/auth"
	"github.com/saulo-duarte/pestcert-lambda/internal/category"
	"github.com/saulo-duarte/pestcert-lambda/internal/document"
	"github.com/saulo-duarte/pestcert-lambda/internal/flashcard"
	"github.com/saulo-duarte/pestcert-lambda/internal/middlewares"
	"github.com/saulo-duarte/pestcert-lambda/internal/quiz"
	"github.com/saulo-duarte/pestcert-lambda/internal/storage"
)

//go:embed openapi.json
var openAPIDoc []byte

type RouterConfig struct {
	DocumentHandler  *document.Handler
	AuthHandler      *auth.Handler
	QuizHandler      *quiz.Handler
	CategoryHandler  *category.Handler
	FlashcardHandler *flashcard.Handler
	AdminHandler     *admin.Handler
	Blobs            storage.BlobStore
	CORSOrigins      []string
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(openAPIDoc)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Mount("/api", document.Routes(cfg.DocumentHandler))
	r.Mount("/auth", auth.Routes(cfg.AuthHandler))
	r.Mount("/quiz", quiz.Routes(cfg.QuizHandler))
	r.Mount("/categories", category.Routes(cfg.CategoryHandler))
	r.Mount("/flashcards", flashcard.Routes(cfg.FlashcardHandler))
	r.Mount("/admin", admin.Routes(cfg.AdminHandler))
	r.Mount("/assets", storage.Routes(cfg.Blobs))

	return r
}
