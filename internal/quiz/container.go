package quiz

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/pestcert-lambda/internal/content"
)

type QuizContainer struct {
	Handler *Handler
	Service Service
}

func NewQuizContainer(db *gorm.DB, store content.Store, cfg Config) *QuizContainer {
	repo := NewRepository(db)
	service := NewService(store, repo, cfg)
	handler := NewHandler(service)

	return &QuizContainer{
		Handler: handler,
		Service: service,
	}
}
