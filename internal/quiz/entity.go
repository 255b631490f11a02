package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/pestcert-lambda/internal/content"
	"github.com/saulo-duarte/pestcert-lambda/internal/question"
)

type Kind string

const (
	KindModule Kind = "module"
	KindFinal  Kind = "final"
	KindCore   Kind = "core"
)

func (k Kind) IsValid() bool {
	_, ok := kinds[k]
	return ok
}

type kindConfig struct {
	bank    content.Bank
	advance AdvanceMode
	timed   bool
	shuffle bool
}

var kinds = map[Kind]kindConfig{
	KindModule: {bank: content.BankQuizzes, advance: AdvanceAuto},
	KindFinal:  {bank: content.BankFinalTests, advance: AdvanceManual, timed: true, shuffle: true},
	KindCore:   {bank: content.BankCoreExam, advance: AdvanceAuto},
}

// Attempt is the persisted outcome of one completed session.
type Attempt struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind        Kind           `gorm:"type:text;not null;index" json:"kind"`
	Category    string         `gorm:"type:text" json:"category,omitempty"`
	Level       question.Level `gorm:"type:text" json:"level,omitempty"`
	Score       int            `gorm:"not null" json:"score"`
	Total       int            `gorm:"not null" json:"total"`
	Percent     int            `gorm:"not null" json:"percent"`
	Passed      bool           `gorm:"not null" json:"passed"`
	TimedOut    bool           `gorm:"not null;default:false" json:"timed_out"`
	CompletedAt time.Time      `gorm:"not null;index" json:"completed_at"`
}

func (a *Attempt) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
