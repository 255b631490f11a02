package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores the document as pretty-printed JSON on local disk.
type FileBackend struct {
	path string
	mu   sync.RWMutex
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Load returns the stored document, writing the default one first if the file is missing.
func (b *FileBackend) Load(ctx context.Context) ([]byte, error) {
	b.mu.RLock()
	raw, err := os.ReadFile(b.path)
	b.mu.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		if err := b.Save(ctx, DefaultDocument); err != nil {
			return nil, err
		}
		return b.Load(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	return raw, nil
}

func (b *FileBackend) Save(_ context.Context, doc []byte) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, doc, "", "  "); err != nil {
		return ErrInvalidDocument
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if dir := filepath.Dir(b.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create content dir: %w", err)
		}
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, pretty.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write content file: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace content file: %w", err)
	}
	return nil
}
