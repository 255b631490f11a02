package admin

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/saulo-duarte/pestcert-lambda/internal/content"
	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

type Table string

const (
	TableFlashcards Table = "flashcards"
	TableQuizzes    Table = "quizzes"
	TableFinalTests Table = "final_tests"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrEmptyCSV     = errors.New("csv has no header row")
	ErrMalformedCSV = errors.New("malformed csv")
)

type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return "missing column: " + e.Column
}

var requiredColumns = map[Table][]string{
	TableFlashcards: {"term", "definition"},
	TableQuizzes:    {"question", "option_a", "option_b", "option_c", "option_d", "correct_option"},
	TableFinalTests: {"question", "option_a", "option_b", "option_c", "option_d", "correct_option"},
}

func (t Table) IsValid() bool {
	_, ok := requiredColumns[t]
	return ok
}

// parsed holds the rows of one upload that survived validation.
type parsed struct {
	flashcards []content.Flashcard
	questions  []content.LetteredQuestion
	skipped    int
}

type csvRow struct {
	idx    map[string]int
	record []string
}

func (r csvRow) get(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// parseCSV maps columns by header name. Rows that would not be playable are counted in
// skipped instead of failing the whole upload. defaultCategory fills rows without one.
func parseCSV(table Table, r io.Reader, defaultCategory string) (*parsed, error) {
	required, ok := requiredColumns[table]
	if !ok {
		return nil, ErrUnknownTable
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedCSV, err)
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, k := range required {
		if _, ok := idx[k]; !ok {
			return nil, &MissingColumnError{Column: k}
		}
	}

	out := &parsed{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		row := csvRow{idx: idx, record: rec}
		if isBlank(rec) {
			continue
		}

		category := row.get("category")
		if category == "" {
			category = defaultCategory
		}

		if table == TableFlashcards {
			card := content.Flashcard{
				Term:       row.get("term"),
				Definition: row.get("definition"),
				ImageURL:   row.get("image_url"),
				Level:      question.ParseLevel(row.get("level")),
				Category:   category,
			}
			if card.Term == "" || card.Definition == "" {
				out.skipped++
				continue
			}
			out.flashcards = append(out.flashcards, card)
			continue
		}

		q := content.LetteredQuestion{
			Question:      row.get("question"),
			OptionA:       row.get("option_a"),
			OptionB:       row.get("option_b"),
			OptionC:       row.get("option_c"),
			OptionD:       row.get("option_d"),
			CorrectOption: strings.ToUpper(row.get("correct_option")),
			Level:         question.ParseLevel(row.get("level")),
			Category:      category,
		}
		if _, ok := question.Normalize(q.Record()); !ok {
			out.skipped++
			continue
		}
		out.questions = append(out.questions, q)
	}
	return out, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
