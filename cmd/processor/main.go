package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"

	httpadapter "github.com/couchcryptid/clickstream-processor/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/clickstream-processor/internal/adapter/kafka"
	s3adapter "github.com/couchcryptid/clickstream-processor/internal/adapter/s3"
	sqsadapter "github.com/couchcryptid/clickstream-processor/internal/adapter/sqs"
	"github.com/couchcryptid/clickstream-processor/internal/config"
	"github.com/couchcryptid/clickstream-processor/internal/domain"
	"github.com/couchcryptid/clickstream-processor/internal/observability"
	"github.com/couchcryptid/clickstream-processor/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	store := s3adapter.NewStore(awss3.NewFromConfig(awsCfg), logger)

	var source pipeline.Source
	switch cfg.NotifySource {
	case config.SourceKafka:
		source = kafkaadapter.NewSource(cfg, logger)
	default:
		source = sqsadapter.NewSource(awssqs.NewFromConfig(awsCfg), cfg.QueueURL, logger)
	}

	policy := domain.Policy{
		PIIFields:      cfg.PIIFields,
		TimestampField: cfg.TimestampField,
	}
	processor := pipeline.NewProcessor(policy, logger, metrics)
	handler := pipeline.NewHandler(store, processor, cfg, logger)
	p := pipeline.New(source, handler, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start notification consumer.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := source.Close(); err != nil {
		logger.Error("notification source close error", "error", err)
	}

	logger.Info("shutdown complete")
}
