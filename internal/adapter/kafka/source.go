package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/clickstream-processor/internal/config"
	"github.com/couchcryptid/clickstream-processor/internal/domain"
)

// Reader is the subset of the kafka-go consumer API the source uses.
type Reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Source implements pipeline.Source over a Kafka topic carrying
// MinIO-style bucket notifications (one object-created event per message).
//
// Kafka keeps a single committed offset per partition, so fetching past an
// unprocessed message would mark it consumed the moment any later offset
// commits. The source therefore never fetches while a notification is
// outstanding: the head of the pending queue stays in place until its Ack
// runs, and a failed handle gets the same notification again on the next
// call. The message's offset is committed only once every notification it
// carried has been acked.
type Source struct {
	reader Reader
	logger *slog.Logger

	mu      sync.Mutex
	pending []domain.Notification
}

// NewSource creates a Kafka consumer for the configured notification topic
// and group.
func NewSource(cfg *config.Config, logger *slog.Logger) *Source {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10 MB
	})
	return &Source{reader: r, logger: logger}
}

// newSourceWithReader backs tests with a fake reader.
func newSourceWithReader(reader Reader, logger *slog.Logger) *Source {
	return &Source{reader: reader, logger: logger}
}

// Next returns the head of the pending queue, fetching a new message only
// when the queue is drained. Unacked notifications are returned again, so
// redelivery semantics match the SQS source. Messages that do not parse
// are committed and dropped: redelivery cannot fix them.
func (s *Source) Next(ctx context.Context) (domain.Notification, error) {
	for {
		s.mu.Lock()
		if len(s.pending) > 0 {
			n := s.pending[0]
			s.mu.Unlock()
			return n, nil
		}
		s.mu.Unlock()

		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			return domain.Notification{}, fmt.Errorf("fetch from kafka: %w", err)
		}

		notifications, err := domain.ParseObjectCreatedEvent(msg.Value)
		if err != nil || len(notifications) == 0 {
			if err != nil {
				s.logger.Warn("dropping unparseable notification message",
					"error", err,
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
				)
			}
			if err := s.reader.CommitMessages(ctx, msg); err != nil {
				s.logger.Warn("commit offset failed", "error", err)
			}
			continue
		}

		ack := s.newMessageAck(msg, len(notifications))
		for i := range notifications {
			notifications[i].Ack = ack
		}

		s.mu.Lock()
		s.pending = notifications
		s.mu.Unlock()
	}
}

// Close shuts down the underlying Kafka reader.
func (s *Source) Close() error {
	return s.reader.Close()
}

// newMessageAck returns an ack shared by every notification from one
// message. Each call retires the queue head; the offset is committed when
// the last notification acks.
func (s *Source) newMessageAck(msg kafkago.Message, count int) func() error {
	remaining := count
	return func() error {
		s.mu.Lock()
		remaining--
		if len(s.pending) > 0 {
			s.pending = s.pending[1:]
		}
		done := remaining == 0
		s.mu.Unlock()

		if !done {
			return nil
		}
		return s.reader.CommitMessages(context.Background(), msg)
	}
}
