package document

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
)

// MaxBodyBytes bounds an uploaded document.
const MaxBodyBytes = 10 << 20

type Handler struct {
	backend Backend
}

func NewHandler(b Backend) *Handler {
	return &Handler{backend: b}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	doc, err := h.backend.Load(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to read content")
		config.JSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read content"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !json.Valid(body) {
		log.Warn("Rejected malformed content document")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.backend.Save(r.Context(), body); err != nil {
		log.WithError(err).Error("Failed to write content")
		config.JSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to write content"})
		return
	}

	log.WithField("bytes", len(body)).Info("Content document replaced")
	config.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
