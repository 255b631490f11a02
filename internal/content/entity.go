package content

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

type Flashcard struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Term       string         `gorm:"type:text;not null" json:"term"`
	Definition string         `gorm:"type:text;not null" json:"definition"`
	ImageURL   string         `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	Level      question.Level `gorm:"type:text;index" json:"level,omitempty"`
	Category   string         `gorm:"type:text;index" json:"category,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (f *Flashcard) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f Flashcard) GetLevel() question.Level { return f.Level }

// LetteredQuestion is the row layout shared by the quizzes and final_tests banks.
type LetteredQuestion struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Question      string         `gorm:"type:text;not null" json:"question"`
	OptionA       string         `gorm:"column:option_a;type:text" json:"option_a"`
	OptionB       string         `gorm:"column:option_b;type:text" json:"option_b"`
	OptionC       string         `gorm:"column:option_c;type:text" json:"option_c"`
	OptionD       string         `gorm:"column:option_d;type:text" json:"option_d"`
	CorrectOption string         `gorm:"column:correct_option;type:text" json:"correct_option"`
	Level         question.Level `gorm:"type:text;index" json:"level,omitempty"`
	Category      string         `gorm:"type:text;index" json:"category,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (q *LetteredQuestion) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (q LetteredQuestion) Record() question.Record {
	return &question.LetteredRecord{
		ID:            q.ID.String(),
		Question:      q.Question,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectOption: q.CorrectOption,
		Level:         question.ParseLevel(string(q.Level)),
		Category:      q.Category,
	}
}

type QuizQuestion struct {
	LetteredQuestion
}

func (QuizQuestion) TableName() string { return "quiz_questions" }

type FinalTestQuestion struct {
	LetteredQuestion
}

func (FinalTestQuestion) TableName() string { return "final_test_questions" }

// CoreExamQuestion keeps the document layout: a choice list and the answer index.
type CoreExamQuestion struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Q         string         `gorm:"column:q;type:text;not null" json:"q"`
	Choices   datatypes.JSON `json:"choices"`
	Answer    *int           `json:"answer"`
	Level     question.Level `gorm:"type:text;index" json:"level,omitempty"`
	Category  string         `gorm:"type:text;index" json:"category,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (CoreExamQuestion) TableName() string { return "core_exam_questions" }

func (q *CoreExamQuestion) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (q CoreExamQuestion) Record() question.Record {
	var choices []string
	if len(q.Choices) > 0 {
		// A malformed column leaves choices empty and normalization drops the row.
		_ = json.Unmarshal(q.Choices, &choices)
	}
	return &question.IndexedRecord{
		ID:       q.ID.String(),
		Q:        q.Q,
		Choices:  choices,
		Answer:   q.Answer,
		Level:    question.ParseLevel(string(q.Level)),
		Category: q.Category,
	}
}

// Models lists every table the content store owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&Flashcard{},
		&QuizQuestion{},
		&FinalTestQuestion{},
		&CoreExamQuestion{},
	}
}
