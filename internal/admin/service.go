package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
	"github.com/saulo-duarte/pestcert-lambda/internal/content"
	"github.com/saulo-duarte/pestcert-lambda/internal/flashcard"
	"github.com/saulo-duarte/pestcert-lambda/internal/storage"
)

var ErrReadOnly = errors.New("content is served from the document store; uploads need the database")

const imagePrefix = "insects/"

type ImportResult struct {
	Table    Table `json:"table"`
	Inserted int   `json:"inserted"`
	Skipped  int   `json:"skipped"`
}

type Upload struct {
	Name string
	Body io.Reader
}

type UploadedImage struct {
	Name      string `json:"name"`
	Key       string `json:"key"`
	PublicURL string `json:"public_url"`
}

type Service interface {
	ImportCSV(ctx context.Context, table Table, r io.Reader, defaultCategory string) (*ImportResult, error)
	UploadImages(ctx context.Context, files []Upload) ([]UploadedImage, error)
}

type service struct {
	db    *gorm.DB
	blobs storage.BlobStore
	now   func() time.Time
}

// NewService needs db for CSV imports; a nil db rejects them with ErrReadOnly.
func NewService(db *gorm.DB, blobs storage.BlobStore) Service {
	return &service{db: db, blobs: blobs, now: time.Now}
}

func (s *service) ImportCSV(ctx context.Context, table Table, r io.Reader, defaultCategory string) (*ImportResult, error) {
	log := config.WithContext(ctx).WithField("table", table)

	if !table.IsValid() {
		return nil, ErrUnknownTable
	}
	if s.db == nil {
		return nil, ErrReadOnly
	}

	p, err := parseCSV(table, r, defaultCategory)
	if err != nil {
		return nil, err
	}

	var inserted int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch table {
		case TableFlashcards:
			inserted = len(p.flashcards)
			return flashcard.NewRepository(tx).CreateBatch(p.flashcards)
		case TableQuizzes:
			rows := make([]content.QuizQuestion, len(p.questions))
			for i, q := range p.questions {
				rows[i] = content.QuizQuestion{LetteredQuestion: q}
			}
			if len(rows) == 0 {
				return nil
			}
			inserted = len(rows)
			return tx.CreateInBatches(&rows, 200).Error
		case TableFinalTests:
			rows := make([]content.FinalTestQuestion, len(p.questions))
			for i, q := range p.questions {
				rows[i] = content.FinalTestQuestion{LetteredQuestion: q}
			}
			if len(rows) == 0 {
				return nil
			}
			inserted = len(rows)
			return tx.CreateInBatches(&rows, 200).Error
		}
		return ErrUnknownTable
	})
	if err != nil {
		log.WithError(err).Error("CSV import failed")
		return nil, fmt.Errorf("import %s: %w", table, err)
	}

	log.WithField("inserted", inserted).WithField("skipped", p.skipped).Info("CSV imported")
	return &ImportResult{Table: table, Inserted: inserted, Skipped: p.skipped}, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// ImageKey names an upload the way the admin console always has: upload time in unix
// milliseconds, then the original name with whitespace runs replaced by underscores.
func ImageKey(name string, at time.Time) string {
	return fmt.Sprintf("%s%d_%s", imagePrefix, at.UnixMilli(), whitespace.ReplaceAllString(name, "_"))
}

func (s *service) UploadImages(ctx context.Context, files []Upload) ([]UploadedImage, error) {
	log := config.WithContext(ctx)

	out := make([]UploadedImage, 0, len(files))
	for _, f := range files {
		key, err := s.blobs.Put(ImageKey(f.Name, s.now()), f.Body)
		if err != nil {
			log.WithError(err).WithField("name", f.Name).Error("Image upload failed")
			return nil, fmt.Errorf("store %s: %w", f.Name, err)
		}
		out = append(out, UploadedImage{Name: f.Name, Key: key, PublicURL: s.blobs.PublicURL(key)})
	}

	log.WithField("count", len(out)).Info("Images uploaded")
	return out, nil
}
