package category

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, map[string]interface{}{
		"categories": Catalog,
		"levels":     Levels,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("level")
	level := question.ParseLevel(raw)
	if raw != "" && level == question.LevelUnset {
		http.Error(w, "level must be beginner, intermediate or advanced", http.StatusBadRequest)
		return
	}

	detail, err := h.service.Detail(r.Context(), chi.URLParam(r, "slug"), level)
	if errors.Is(err, ErrCategoryNotFound) {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to load category")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, detail)
}
