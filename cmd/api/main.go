package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentanything/internal/app"
	"rentanything/internal/config"
	"rentanything/internal/database"
	"rentanything/internal/notification"
	"rentanything/internal/pkg/images"
	"rentanything/internal/pkg/logger"
	"rentanything/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := repository.Migrate(db); err != nil {
		return err
	}
	if err := repository.SeedCategories(ctx, db); err != nil {
		return err
	}

	var opts app.Options
	if cfg.S3Enabled() {
		store, err := images.NewS3Store(images.S3Config{
			Endpoint:      cfg.S3Endpoint,
			UseSSL:        cfg.S3UseSSL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			PublicBaseURL: cfg.S3PublicEndpoint,
		}, log)
		if err != nil {
			return err
		}
		opts.ImageStore = store
		log.Info("image storage enabled", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	}
	if cfg.KafkaEnabled() {
		publisher, err := notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil, log)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts.Publisher = publisher
		log.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers, "topic", publisher.Topic())
	}

	if !config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a := app.New(cfg, db, log, opts)
	defer a.Hub.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
