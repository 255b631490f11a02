package content

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

// SQLStore reads content tables through gorm.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) ListFlashcards(ctx context.Context, f FlashcardFilter) ([]Flashcard, error) {
	q := s.db.WithContext(ctx).Model(&Flashcard{})
	q = whereCategory(q, f.Category)
	if f.ImageOnly {
		q = q.Where("image_url IS NOT NULL AND image_url <> ''")
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("(LOWER(term) LIKE ? OR LOWER(definition) LIKE ?)", like, like)
	}

	var cards []Flashcard
	if err := q.Order("created_at ASC, id ASC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	return question.FilterByLevel(cards, f.Level), nil
}

func (s *SQLStore) ListQuizQuestions(ctx context.Context, f QuestionFilter) ([]question.Record, error) {
	var records []question.Record

	switch f.Bank {
	case BankQuizzes:
		var rows []QuizQuestion
		if err := s.questionQuery(ctx, &QuizQuestion{}, f).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list %s: %w", f.Bank, err)
		}
		for _, r := range rows {
			records = append(records, r.Record())
		}
	case BankFinalTests:
		var rows []FinalTestQuestion
		if err := s.questionQuery(ctx, &FinalTestQuestion{}, f).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list %s: %w", f.Bank, err)
		}
		for _, r := range rows {
			records = append(records, r.Record())
		}
	case BankCoreExam:
		var rows []CoreExamQuestion
		if err := s.questionQuery(ctx, &CoreExamQuestion{}, f).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list %s: %w", f.Bank, err)
		}
		for _, r := range rows {
			records = append(records, r.Record())
		}
	default:
		return nil, ErrUnknownBank
	}

	return question.FilterByLevel(records, f.Level), nil
}

func (s *SQLStore) questionQuery(ctx context.Context, model interface{}, f QuestionFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(model)
	return whereCategory(q, f.Category).Order("created_at ASC, id ASC")
}

func whereCategory(q *gorm.DB, category string) *gorm.DB {
	if category == "" {
		return q
	}
	return q.Where("(category = ? OR category = '' OR category IS NULL)", category)
}
