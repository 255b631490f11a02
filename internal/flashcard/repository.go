package flashcard

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/pestcert-lambda/internal/content"
)

type Repository interface {
	Create(card *content.Flashcard) error
	CreateBatch(cards []content.Flashcard) error
	FindByID(id uuid.UUID) (*content.Flashcard, error)
	Update(card *content.Flashcard) error
	Delete(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(card *content.Flashcard) error {
	return r.db.Create(card).Error
}

func (r *repository) CreateBatch(cards []content.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.CreateInBatches(&cards, 200).Error
}

func (r *repository) FindByID(id uuid.UUID) (*content.Flashcard, error) {
	var card content.Flashcard
	if err := r.db.First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *repository) Update(card *content.Flashcard) error {
	return r.db.Save(card).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&content.Flashcard{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
