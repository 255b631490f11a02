package flashcard

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/pestcert-lambda/internal/content"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

// NewContainer builds the flashcard feature. db may be nil when content comes from the
// document store, which leaves the admin write endpoints read-only.
func NewContainer(db *gorm.DB, store content.Store) *Container {
	var repo Repository
	if db != nil {
		repo = NewRepository(db)
	}
	service := NewService(store, repo)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
