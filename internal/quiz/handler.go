package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

type startResponse struct {
	Session *View  `json:"session"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid request body for quiz session")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.Start(r.Context(), req)
	switch {
	case errors.Is(err, ErrNoQuestions):
		config.JSON(w, http.StatusOK, startResponse{Message: "no questions available"})
		return
	case errors.Is(err, ErrInvalidKind):
		http.Error(w, "kind must be one of module, final, core", http.StatusBadRequest)
		return
	case errors.Is(err, ErrInvalidAdvance):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.WithError(err).Error("Failed to start quiz session")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, startResponse{Session: view})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(r.Context(), id)
	h.respond(w, r, view, err)
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var body struct {
		Choice *int `json:"choice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Choice == nil {
		http.Error(w, "choice required", http.StatusBadRequest)
		return
	}

	view, err := h.service.Answer(r.Context(), id, *body.Choice)
	h.respond(w, r, view, err)
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Next(r.Context(), id)
	h.respond(w, r, view, err)
}

func (h *Handler) Expire(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Expire(r.Context(), id)
	h.respond(w, r, view, err)
}

func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Result(r.Context(), id)
	h.respond(w, r, view, err)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Reset(r.Context(), id)
	h.respond(w, r, view, err)
}

func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.service.Discard(r.Context(), id); err != nil {
		h.respond(w, r, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	f := AttemptFilter{Kind: Kind(r.URL.Query().Get("kind")), Limit: 100}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		f.Limit = n
	}
	if f.Kind != "" && !f.Kind.IsValid() {
		http.Error(w, "invalid kind", http.StatusBadRequest)
		return
	}

	attempts, err := h.service.ListAttempts(r.Context(), f)
	if err != nil {
		log.WithError(err).Error("Failed to list quiz attempts")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, attempts)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, view *View, err error) {
	switch {
	case err == nil:
		config.JSON(w, http.StatusOK, view)
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidChoice):
		http.Error(w, "choice must be between 0 and 3", http.StatusBadRequest)
	case errors.Is(err, ErrNotComplete):
		http.Error(w, "session is still in progress", http.StatusConflict)
	default:
		config.WithContext(r.Context()).WithError(err).Error("Quiz session request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
