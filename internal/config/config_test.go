package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QUEUE_URL", "https://sqs.us-east-1.amazonaws.com/123456789012/raw-objects")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceSQS, cfg.NotifySource)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "raw/", cfg.RawPrefix)
	assert.Equal(t, "processed/", cfg.ProcessedPrefix)
	assert.Equal(t, ".gz", cfg.RawSuffix)
	assert.Equal(t, ".json", cfg.ProcessedSuffix)
	assert.Equal(t, []string{"user_id"}, cfg.PIIFields)
	assert.Equal(t, "processed_ts", cfg.TimestampField)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("QUEUE_URL", "https://sqs.eu-west-1.amazonaws.com/123456789012/q")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("RAW_PREFIX", "landing/")
	t.Setenv("PROCESSED_PREFIX", "clean/")
	t.Setenv("PII_FIELDS", "user_id, ip_address ,email")
	t.Setenv("TIMESTAMP_FIELD", "etl_ts")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
	assert.Equal(t, "landing/", cfg.RawPrefix)
	assert.Equal(t, "clean/", cfg.ProcessedPrefix)
	assert.Equal(t, []string{"user_id", "ip_address", "email"}, cfg.PIIFields)
	assert.Equal(t, "etl_ts", cfg.TimestampField)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_KafkaSource(t *testing.T) {
	t.Setenv("NOTIFY_SOURCE", "kafka")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceKafka, cfg.NotifySource)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "bucket-notifications", cfg.KafkaTopic)
	assert.Equal(t, "clickstream-processor", cfg.KafkaGroupID)
}

func TestLoad_SQSRequiresQueueURL(t *testing.T) {
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "QUEUE_URL")
}

func TestLoad_KafkaRequiresBrokers(t *testing.T) {
	t.Setenv("NOTIFY_SOURCE", "kafka")
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_InvalidNotifySource(t *testing.T) {
	t.Setenv("NOTIFY_SOURCE", "carrier-pigeon")
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFY_SOURCE")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("QUEUE_URL", "https://example/q")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_PrefixesMustDiffer(t *testing.T) {
	t.Setenv("QUEUE_URL", "https://example/q")
	t.Setenv("RAW_PREFIX", "data/")
	t.Setenv("PROCESSED_PREFIX", "data/")
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoad_EmptyTimestampField(t *testing.T) {
	t.Setenv("QUEUE_URL", "https://example/q")
	t.Setenv("TIMESTAMP_FIELD", " ")
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TIMESTAMP_FIELD")
}
