package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/saulo-duarte/pestcert-lambda/internal/admin"
	"github.com/saulo-duarte/pestcert-lambda/internal/auth"
	"github.com/saulo-duarte/pestcert-lambda/internal/category"
	"github.com/saulo-duarte/pestcert-lambda/internal/config"
	"github.com/saulo-duarte/pestcert-lambda/internal/content"
	"github.com/saulo-duarte/pestcert-lambda/internal/document"
	"github.com/saulo-duarte/pestcert-lambda/internal/flashcard"
	"github.com/saulo-duarte/pestcert-lambda/internal/quiz"
	"github.com/saulo-duarte/pestcert-lambda/internal/router"
	"github.com/saulo-duarte/pestcert-lambda/internal/storage"
)

const (
	ContentSourceDB       = "db"
	ContentSourceDocument = "document"

	ContentBackendFile  = "file"
	ContentBackendRedis = "redis"
)

type Container struct {
	Settings config.Settings
	DB       *gorm.DB
	Redis    *redis.Client

	Backend document.Backend
	Store   content.Store
	Blobs   storage.BlobStore

	AuthHandler        *auth.Handler
	DocumentHandler    *document.Handler
	FlashcardContainer *flashcard.Container
	CategoryHandler    *category.Handler
	QuizContainer      *quiz.QuizContainer
	AdminHandler       *admin.Handler
}

// New wires every feature from s. Close releases what it opened.
func New(ctx context.Context, s config.Settings) (*Container, error) {
	config.Init(s)
	if s.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	auth.Init(s.JWTSecret)
	log := config.WithContext(ctx)

	c := &Container{Settings: s}

	db, err := config.Connect(ctx, s.DBDriver, s.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	c.DB = db
	ready := false
	defer func() {
		if !ready {
			c.Close()
		}
	}()
	if s.AutoMigrate {
		models := append(content.Models(), &quiz.Attempt{})
		if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	switch s.ContentBackend {
	case ContentBackendRedis:
		client, err := document.NewRedisClient(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Redis = client
		c.Backend = document.NewRedisBackend(client, document.DefaultRedisKey)
	case ContentBackendFile, "":
		c.Backend = document.NewFileBackend(s.ContentPath)
	default:
		return nil, fmt.Errorf("unsupported content backend: %s", s.ContentBackend)
	}

	// Flashcard writes need the relational store; document-sourced content is read-only.
	writeDB := db
	switch s.ContentSource {
	case ContentSourceDocument:
		c.Store = content.NewDocumentStore(c.Backend)
		writeDB = nil
	case ContentSourceDB, "":
		c.Store = content.NewSQLStore(db)
	default:
		return nil, fmt.Errorf("unsupported content source: %s", s.ContentSource)
	}

	blobs, err := storage.NewFSStore(s.BlobBasePath, s.PublicAssetsURL)
	if err != nil {
		return nil, fmt.Errorf("blob store: %w", err)
	}
	c.Blobs = blobs

	c.AuthHandler = auth.NewHandler(s.AdminEmails, s.AdminPasswordHash, s.IsLambda)
	c.DocumentHandler = document.NewHandler(c.Backend)
	c.FlashcardContainer = flashcard.NewContainer(writeDB, c.Store)
	c.CategoryHandler = category.NewHandler(category.NewService(c.Store, c.FlashcardContainer.Service))
	c.QuizContainer = quiz.NewQuizContainer(db, c.Store, quiz.Config{
		AdvanceDelay:     s.QuizAdvanceDelay,
		FinalExamMinutes: s.FinalExamMinutes,
		IdleTTL:          s.SessionIdleTTL,
	})
	c.AdminHandler = admin.NewHandler(admin.NewService(writeDB, blobs))

	log.WithField("content_source", s.ContentSource).
		WithField("content_backend", s.ContentBackend).
		Info("Container ready")
	ready = true
	return c, nil
}

// Handler is the full HTTP surface, shared by the local server and the Lambda adapter.
func (c *Container) Handler() http.Handler {
	return router.New(router.RouterConfig{
		DocumentHandler:  c.DocumentHandler,
		AuthHandler:      c.AuthHandler,
		QuizHandler:      c.QuizContainer.Handler,
		CategoryHandler:  c.CategoryHandler,
		FlashcardHandler: c.FlashcardContainer.Handler,
		AdminHandler:     c.AdminHandler,
		Blobs:            c.Blobs,
		CORSOrigins:      c.Settings.CORSOrigins,
	})
}

// SweepInterval is how often idle quiz sessions are checked for eviction.
const SweepInterval = time.Minute

func (c *Container) Close() {
	if c.QuizContainer != nil {
		c.QuizContainer.Service.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
