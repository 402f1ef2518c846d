package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Notification source kinds.
const (
	SourceSQS   = "sqs"
	SourceKafka = "kafka"
)

// Config holds all service settings, populated from environment variables.
// Invalid or missing required values fail at startup, before any
// notification is accepted.
type Config struct {
	// Notification source selection.
	NotifySource string

	// SQS source (NOTIFY_SOURCE=sqs).
	AWSRegion string
	QueueURL  string

	// Kafka source (NOTIFY_SOURCE=kafka), for MinIO-style bucket
	// notifications published to a topic.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Zone layout. Partition segments between prefix and object name are
	// copied verbatim from raw key to processed key.
	RawPrefix       string
	ProcessedPrefix string
	RawSuffix       string
	ProcessedSuffix string

	// Transformation policy.
	PIIFields      []string
	TimestampField string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownStr := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	shutdownTimeout, err := time.ParseDuration(shutdownStr)
	if err != nil || shutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}

	cfg := &Config{
		NotifySource: strings.ToLower(envOrDefault("NOTIFY_SOURCE", SourceSQS)),

		AWSRegion: envOrDefault("AWS_REGION", "us-east-1"),
		QueueURL:  os.Getenv("QUEUE_URL"),

		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "bucket-notifications"),
		KafkaGroupID: envOrDefault("KAFKA_GROUP_ID", "clickstream-processor"),

		RawPrefix:       envOrDefault("RAW_PREFIX", "raw/"),
		ProcessedPrefix: envOrDefault("PROCESSED_PREFIX", "processed/"),
		RawSuffix:       envOrDefault("RAW_SUFFIX", ".gz"),
		ProcessedSuffix: envOrDefault("PROCESSED_SUFFIX", ".json"),

		PIIFields:      splitAndTrim(envOrDefault("PII_FIELDS", "user_id")),
		TimestampField: strings.TrimSpace(envOrDefault("TIMESTAMP_FIELD", "processed_ts")),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	switch cfg.NotifySource {
	case SourceSQS:
		if cfg.QueueURL == "" {
			return nil, errors.New("QUEUE_URL is required when NOTIFY_SOURCE is sqs")
		}
	case SourceKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when NOTIFY_SOURCE is kafka")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when NOTIFY_SOURCE is kafka")
		}
	default:
		return nil, fmt.Errorf("invalid NOTIFY_SOURCE %q: must be sqs or kafka", cfg.NotifySource)
	}

	if cfg.RawPrefix == "" || cfg.ProcessedPrefix == "" {
		return nil, errors.New("RAW_PREFIX and PROCESSED_PREFIX must be non-empty")
	}
	if cfg.RawPrefix == cfg.ProcessedPrefix {
		// A processed-zone write would re-trigger the raw-zone filter.
		return nil, errors.New("RAW_PREFIX and PROCESSED_PREFIX must differ")
	}
	if cfg.RawSuffix == "" {
		return nil, errors.New("RAW_SUFFIX must be non-empty")
	}
	if cfg.TimestampField == "" {
		return nil, errors.New("TIMESTAMP_FIELD must be non-empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
