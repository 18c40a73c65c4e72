package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"volunteerhub/internal/auth"
	"volunteerhub/internal/db"
	"volunteerhub/internal/server"
	"volunteerhub/internal/storage"
	"volunteerhub/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func repositories(pool *pgxpool.Pool) server.Repositories {
	return server.Repositories{
		Users:          store.NewUserRepository(pool),
		Categories:     store.NewCategoryRepository(pool),
		Projects:       store.NewProjectRepository(pool),
		Moderations:    store.NewModerationRepository(pool),
		Tasks:          store.NewTaskRepository(pool),
		Reports:        store.NewReportRepository(pool),
		Applications:   store.NewApplicationRepository(pool),
		Donations:      store.NewDonationRepository(pool),
		ProjectReports: store.NewProjectReportRepository(pool),
		Contact:        store.NewFormsRepository(pool),
	}
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)

	signingKey, err := base64.StdEncoding.DecodeString(config.TokenSigningKey)
	if err != nil {
		return fmt.Errorf("failed to decode token signing key: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(signingKey, config.TokenIssuer, sessionTTL(config))
	if err != nil {
		return err
	}

	var documents server.DocumentStore
	if config.S3BucketName != "" {
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		documents = storage.NewFromClient(s3.NewFromConfig(awsConfig), storage.Options{
			Bucket:   config.S3BucketName,
			Prefix:   config.S3KeyPrefix,
			MaxBytes: config.DocumentMaxBytes,
			URLTTL:   time.Duration(config.DocumentURLTTLSec) * time.Second,
		})
	} else {
		logger.Warn("S3_BUCKET_NAME not set, project report documents are disabled")
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	srv, err := server.New(config, logger, repositories(pool), tokens, documents)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
