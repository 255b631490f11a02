package quiz

import (
	"context"

	"gorm.io/gorm"
)

type AttemptFilter struct {
	Kind  Kind
	Limit int
}

type AttemptRepository interface {
	Create(ctx context.Context, a *Attempt) error
	List(ctx context.Context, f AttemptFilter) ([]Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(ctx context.Context, a *Attempt) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attemptRepository) List(ctx context.Context, f AttemptFilter) ([]Attempt, error) {
	q := r.db.WithContext(ctx).Order("completed_at DESC")
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var attempts []Attempt
	if err := q.Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
