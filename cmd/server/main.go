package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/saulo-duarte/pestcert-lambda/internal/config"
	"github.com/saulo-duarte/pestcert-lambda/internal/container"
	"github.com/saulo-duarte/pestcert-lambda/internal/quiz"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := config.Load()

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	c, err := container.New(initCtx, settings)
	cancel()
	if err != nil {
		config.Logger().WithError(err).Fatal("Failed to build container")
	}
	defer c.Close()

	go quiz.RunSweeper(ctx, c.QuizContainer.Service, container.SweepInterval)

	handler := c.Handler()
	log := config.Logger()

	if settings.IsLambda {
		log.Info("Starting Lambda handler")
		lambda.StartWithOptions(httpadapter.New(handler).ProxyWithContext, lambda.WithContext(ctx))
		return
	}

	srv := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	log.WithField("addr", settings.HTTPAddr).
		WithField("db", settings.DBDriver).
		WithField("content_source", settings.ContentSource).
		Info("Listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Server stopped")
	}
}
