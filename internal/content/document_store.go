package content

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/saulo-duarte/pestcert-lambda/internal/document"
	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

type contentDocument struct {
	CoreExam   []json.RawMessage            `json:"core_exam"`
	FinalTests []json.RawMessage            `json:"final_tests"`
	Categories map[string][]json.RawMessage `json:"categories"`
	Flashcards []json.RawMessage            `json:"flashcards"`
}

type documentFlashcard struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	ImageURL   string `json:"image_url"`
	Level      string `json:"level"`
	Category   string `json:"category"`
}

// DocumentStore serves content out of the single training-content document.
type DocumentStore struct {
	backend document.Backend
}

func NewDocumentStore(b document.Backend) *DocumentStore {
	return &DocumentStore{backend: b}
}

func (s *DocumentStore) load(ctx context.Context) (*contentDocument, error) {
	raw, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	var doc contentDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode content document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStore) ListFlashcards(ctx context.Context, f FlashcardFilter) ([]Flashcard, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	cards := decodeFlashcards(doc.Flashcards)
	out := make([]Flashcard, 0, len(cards))
	for _, c := range cards {
		if f.match(c) {
			out = append(out, c)
		}
	}
	return question.FilterByLevel(out, f.Level), nil
}

func (s *DocumentStore) ListQuizQuestions(ctx context.Context, f QuestionFilter) ([]question.Record, error) {
	if !f.Bank.IsValid() {
		return nil, ErrUnknownBank
	}
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var records []question.Record
	switch f.Bank {
	case BankCoreExam:
		records = question.DecodeRecords(doc.CoreExam)
	case BankFinalTests:
		records = question.DecodeRecords(doc.FinalTests)
	case BankQuizzes:
		for _, slug := range sortedSlugs(doc.Categories) {
			if !categoryMatches(slug, f.Category) {
				continue
			}
			for _, r := range question.DecodeRecords(doc.Categories[slug]) {
				setCategory(r, slug)
				records = append(records, r)
			}
		}
	}

	if f.Bank != BankQuizzes && f.Category != "" {
		kept := records[:0]
		for _, r := range records {
			if categoryMatches(recordCategory(r), f.Category) {
				kept = append(kept, r)
			}
		}
		records = kept
	}
	return question.FilterByLevel(records, f.Level), nil
}

func decodeFlashcards(raws []json.RawMessage) []Flashcard {
	out := make([]Flashcard, 0, len(raws))
	for _, raw := range raws {
		var d documentFlashcard
		if err := json.Unmarshal(raw, &d); err != nil || d.Term == "" {
			continue
		}
		id, err := uuid.Parse(d.ID)
		if err != nil {
			id = uuid.NewSHA1(uuid.NameSpaceOID, raw)
		}
		out = append(out, Flashcard{
			ID:         id,
			Term:       d.Term,
			Definition: d.Definition,
			ImageURL:   d.ImageURL,
			Level:      question.ParseLevel(d.Level),
			Category:   d.Category,
		})
	}
	return out
}

func sortedSlugs(m map[string][]json.RawMessage) []string {
	slugs := make([]string, 0, len(m))
	for k := range m {
		slugs = append(slugs, k)
	}
	sort.Strings(slugs)
	return slugs
}

func setCategory(r question.Record, slug string) {
	switch v := r.(type) {
	case *question.LetteredRecord:
		if v.Category == "" {
			v.Category = slug
		}
	case *question.IndexedRecord:
		if v.Category == "" {
			v.Category = slug
		}
	}
}

func recordCategory(r question.Record) string {
	switch v := r.(type) {
	case *question.LetteredRecord:
		return v.Category
	case *question.IndexedRecord:
		return v.Category
	}
	return ""
}
