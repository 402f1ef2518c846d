package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/clickstream-processor/internal/config"
	"github.com/couchcryptid/clickstream-processor/internal/domain"
)

// ErrOutOfScope marks a notification for a key outside the raw-zone
// contract. Such notifications are acknowledged and ignored, never retried.
var ErrOutOfScope = errors.New("key out of raw-zone contract")

// ObjectStore is the port for whole-object reads and writes. Put overwrites
// any existing object at the key; the store is assumed atomic at
// whole-object granularity.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, body []byte) error
}

// Handler performs the read-transform-write cycle for one notification.
type Handler struct {
	store     ObjectStore
	processor *Processor
	cfg       *config.Config
	logger    *slog.Logger
}

// NewHandler creates a Handler writing through the given store.
func NewHandler(store ObjectStore, processor *Processor, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		processor: processor,
		cfg:       cfg,
		logger:    logger,
	}
}

// MapKey derives the processed-zone key for a raw-zone key: the raw prefix
// is substituted with the processed prefix and the compressed suffix with
// the output suffix. Everything in between, including the year=/month=/day=
// partition segments, is copied verbatim so catalog partition values match
// across zones regardless of processing-time clock.
func MapKey(rawKey string, cfg *config.Config) (string, error) {
	if !strings.HasPrefix(rawKey, cfg.RawPrefix) || !strings.HasSuffix(rawKey, cfg.RawSuffix) {
		return "", fmt.Errorf("%w: %q", ErrOutOfScope, rawKey)
	}
	rest := strings.TrimPrefix(rawKey, cfg.RawPrefix)
	rest = strings.TrimSuffix(rest, cfg.RawSuffix)
	if rest == "" {
		return "", fmt.Errorf("%w: %q", ErrOutOfScope, rawKey)
	}
	return cfg.ProcessedPrefix + rest + cfg.ProcessedSuffix, nil
}

// Handle resolves the destination key, reads the raw object, processes it,
// and writes the result. Retrying the same notification is safe: the write
// is a full overwrite and produces the same bytes apart from the
// transformation timestamps. Any returned error (other than ErrOutOfScope,
// which the caller acks) means no processed object was written by this
// invocation and the notification should be redelivered.
func (h *Handler) Handle(ctx context.Context, n domain.Notification) error {
	destKey, err := MapKey(n.Key, h.cfg)
	if err != nil {
		return err
	}

	raw, err := h.store.Get(ctx, n.Bucket, n.Key)
	if err != nil {
		return fmt.Errorf("read %s/%s: %w", n.Bucket, n.Key, err)
	}

	processed, outcome, err := h.processor.Process(raw)
	if err != nil {
		return fmt.Errorf("process %s/%s: %w", n.Bucket, n.Key, err)
	}

	if err := h.store.Put(ctx, n.Bucket, destKey, processed); err != nil {
		return fmt.Errorf("write %s/%s: %w", n.Bucket, destKey, err)
	}

	h.logger.Info("object processed",
		"bucket", n.Bucket,
		"key", n.Key,
		"dest_key", destKey,
		"transformed", outcome.Transformed,
		"skipped", outcome.Skipped,
	)
	return nil
}
