package flashcard

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
	"github.com/saulo-duarte/pestcert-lambda/internal/content"
	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

var (
	ErrFlashcardNotFound = errors.New("flashcard not found")
	ErrInvalidFlashcard  = errors.New("term and definition are required")
	ErrReadOnly          = errors.New("flashcards are read-only in this deployment")
)

type Service interface {
	List(ctx context.Context, f content.FlashcardFilter) []FlashcardResponse
	Sample(ctx context.Context, f content.FlashcardFilter, n int) []FlashcardResponse
	Create(ctx context.Context, dto CreateFlashcardDTO) (*FlashcardResponse, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateFlashcardDTO) (*FlashcardResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store content.Store
	repo  Repository
}

// NewService wires reads through store and writes through repo. A nil repo makes the
// write operations return ErrReadOnly.
func NewService(store content.Store, repo Repository) Service {
	return &service{store: store, repo: repo}
}

// List never fails: a store error is logged and reads as no flashcards.
func (s *service) List(ctx context.Context, f content.FlashcardFilter) []FlashcardResponse {
	cards, err := s.store.ListFlashcards(ctx, f)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to load flashcards")
		return []FlashcardResponse{}
	}

	out := make([]FlashcardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, toResponse(&cards[i]))
	}
	return out
}

func (s *service) Sample(ctx context.Context, f content.FlashcardFilter, n int) []FlashcardResponse {
	return Sample(s.List(ctx, f), n)
}

func (s *service) Create(ctx context.Context, dto CreateFlashcardDTO) (*FlashcardResponse, error) {
	if s.repo == nil {
		return nil, ErrReadOnly
	}
	card := content.Flashcard{
		Term:       strings.TrimSpace(dto.Term),
		Definition: strings.TrimSpace(dto.Definition),
		ImageURL:   strings.TrimSpace(dto.ImageURL),
		Level:      question.ParseLevel(string(dto.Level)),
		Category:   strings.TrimSpace(dto.Category),
	}
	if card.Term == "" || card.Definition == "" {
		return nil, ErrInvalidFlashcard
	}

	if err := s.repo.Create(&card); err != nil {
		return nil, err
	}

	config.WithContext(ctx).WithField("flashcard_id", card.ID).Info("Flashcard created")
	resp := toResponse(&card)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateFlashcardDTO) (*FlashcardResponse, error) {
	if s.repo == nil {
		return nil, ErrReadOnly
	}
	card, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFlashcardNotFound
	}
	if err != nil {
		return nil, err
	}

	if dto.Term != nil {
		card.Term = strings.TrimSpace(*dto.Term)
	}
	if dto.Definition != nil {
		card.Definition = strings.TrimSpace(*dto.Definition)
	}
	if dto.ImageURL != nil {
		card.ImageURL = strings.TrimSpace(*dto.ImageURL)
	}
	if dto.Level != nil {
		card.Level = question.ParseLevel(string(*dto.Level))
	}
	if dto.Category != nil {
		card.Category = strings.TrimSpace(*dto.Category)
	}
	if card.Term == "" || card.Definition == "" {
		return nil, ErrInvalidFlashcard
	}

	if err := s.repo.Update(card); err != nil {
		return nil, err
	}

	config.WithContext(ctx).WithField("flashcard_id", card.ID).Info("Flashcard updated")
	resp := toResponse(card)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.repo == nil {
		return ErrReadOnly
	}
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFlashcardNotFound
		}
		return err
	}
	config.WithContext(ctx).WithField("flashcard_id", id).Info("Flashcard deleted")
	return nil
}
