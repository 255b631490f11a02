package document

import (
	"context"
	"errors"
)

// DefaultDocument is served when nothing has been stored yet.
var DefaultDocument = []byte(`{"core_exam":[],"categories":{},"flashcards":[],"links":{"national":[],"pennsylvania":[]}}`)

var ErrInvalidDocument = errors.New("content document is not valid JSON")

// Backend keeps the single training-content document. Save replaces it wholesale.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
}
