package storage

import (
	"errors"
	"io"
)

var (
	ErrEmptyKey   = errors.New("empty key")
	ErrInvalidKey = errors.New("key escapes the store root")
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	PublicURL(key string) string
}
