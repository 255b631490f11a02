package admin

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
	"github.com/saulo-duarte/pestcert-lambda/internal/storage"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	table := Table(chi.URLParam(r, "table"))
	if !table.IsValid() {
		http.Error(w, "table must be one of flashcards, quizzes, final_tests", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	f, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}
	defer f.Close()

	result, err := h.service.ImportCSV(r.Context(), table, f, r.FormValue("category"))
	var missing *MissingColumnError
	switch {
	case err == nil:
		config.JSON(w, http.StatusCreated, result)
	case errors.As(err, &missing), errors.Is(err, ErrEmptyCSV), errors.Is(err, ErrMalformedCSV):
		http.Error(w, "bad csv: "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrReadOnly):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.WithError(err).Error("Failed to import CSV")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "files required", http.StatusBadRequest)
		return
	}

	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "unreadable file", http.StatusBadRequest)
			return
		}
		defer f.Close()
		uploads = append(uploads, Upload{Name: filepath.Base(fh.Filename), Body: f})
	}

	images, err := h.service.UploadImages(r.Context(), uploads)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKey) || errors.Is(err, storage.ErrEmptyKey) {
			http.Error(w, "invalid file name", http.StatusBadRequest)
			return
		}
		log.WithError(err).Error("Image upload failed")
		http.Error(w, "Image upload failed", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, images)
}
