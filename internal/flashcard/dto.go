package flashcard

import (
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/pestcert-lambda/internal/content"
	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

type CreateFlashcardDTO struct {
	Term       string         `json:"term"`
	Definition string         `json:"definition"`
	ImageURL   string         `json:"image_url"`
	Level      question.Level `json:"level"`
	Category   string         `json:"category"`
}

type UpdateFlashcardDTO struct {
	Term       *string         `json:"term"`
	Definition *string         `json:"definition"`
	ImageURL   *string         `json:"image_url"`
	Level      *question.Level `json:"level"`
	Category   *string         `json:"category"`
}

type FlashcardResponse struct {
	ID         uuid.UUID      `json:"id"`
	Term       string         `json:"term"`
	Definition string         `json:"definition"`
	ImageURL   string         `json:"image_url,omitempty"`
	Level      question.Level `json:"level,omitempty"`
	Category   string         `json:"category,omitempty"`
	CreatedAt  *time.Time     `json:"created_at,omitempty"`
}

func toResponse(f *content.Flashcard) FlashcardResponse {
	r := FlashcardResponse{
		ID:         f.ID,
		Term:       f.Term,
		Definition: f.Definition,
		ImageURL:   f.ImageURL,
		Level:      f.Level,
		Category:   f.Category,
	}
	if !f.CreatedAt.IsZero() {
		t := f.CreatedAt
		r.CreatedAt = &t
	}
	return r
}
