package category

import (
	"context"
	"errors"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
	"github.com/saulo-duarte/pestcert-lambda/internal/content"
	"github.com/saulo-duarte/pestcert-lambda/internal/flashcard"
	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

var ErrCategoryNotFound = errors.New("category not found")

type Detail struct {
	Category           Category                      `json:"category"`
	Level              question.Level                `json:"level"`
	Flashcards         []flashcard.FlashcardResponse `json:"flashcards"`
	QuestionCount      int                           `json:"question_count"`
	QuestionsAvailable bool                          `json:"questions_available"`
}

type Service interface {
	Detail(ctx context.Context, slug string, level question.Level) (*Detail, error)
}

type service struct {
	store      content.Store
	flashcards flashcard.Service
}

func NewService(store content.Store, flashcards flashcard.Service) Service {
	return &service{store: store, flashcards: flashcards}
}

// Detail gathers what a category page shows at one level. The level defaults to beginner.
func (s *service) Detail(ctx context.Context, slug string, level question.Level) (*Detail, error) {
	cat, ok := BySlug(slug)
	if !ok {
		if cat, ok = ByID(slug); !ok {
			return nil, ErrCategoryNotFound
		}
	}
	if level == question.LevelUnset {
		level = question.LevelBeginner
	}

	cards := s.flashcards.Sample(ctx, content.FlashcardFilter{Category: cat.Slug, Level: level}, flashcard.DefaultSampleSize)

	records, err := s.store.ListQuizQuestions(ctx, content.QuestionFilter{
		Bank:     content.BankQuizzes,
		Category: cat.Slug,
		Level:    level,
	})
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("category", cat.Slug).Error("Failed to count category questions")
		records = nil
	}
	count := len(question.NormalizeAll(records))

	return &Detail{
		Category:           cat,
		Level:              level,
		Flashcards:         cards,
		QuestionCount:      count,
		QuestionsAvailable: count > 0,
	}, nil
}
