package content

import (
	"context"
	"errors"
	"strings"

	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

type Bank string

const (
	BankQuizzes    Bank = "quizzes"
	BankFinalTests Bank = "final_tests"
	BankCoreExam   Bank = "core_exam"
)

var ErrUnknownBank = errors.New("unknown question bank")

func (b Bank) IsValid() bool {
	switch b {
	case BankQuizzes, BankFinalTests, BankCoreExam:
		return true
	}
	return false
}

type FlashcardFilter struct {
	Category  string
	Level     question.Level
	ImageOnly bool
	Search    string
}

type QuestionFilter struct {
	Bank     Bank
	Category string
	Level    question.Level
}

// Store reads training content. Question results are raw records; callers normalize them.
type Store interface {
	ListFlashcards(ctx context.Context, f FlashcardFilter) ([]Flashcard, error)
	ListQuizQuestions(ctx context.Context, f QuestionFilter) ([]question.Record, error)
}

// Uncategorized rows belong to every category.
func categoryMatches(rowCategory, want string) bool {
	return want == "" || rowCategory == "" || rowCategory == want
}

func (f FlashcardFilter) match(card Flashcard) bool {
	if !categoryMatches(card.Category, f.Category) {
		return false
	}
	if f.ImageOnly && card.ImageURL == "" {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(card.Term), needle) &&
			!strings.Contains(strings.ToLower(card.Definition), needle) {
			return false
		}
	}
	return true
}
