package sqs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/couchcryptid/clickstream-processor/internal/domain"
)

const deleteTimeout = 5 * time.Second

// Client is the subset of the SQS API the source uses.
type Client interface {
	ReceiveMessage(ctx context.Context, params *awssqs.ReceiveMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *awssqs.DeleteMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.DeleteMessageOutput, error)
}

// Source implements pipeline.Source over an SQS queue receiving S3
// object-created events. One queue message can announce several objects;
// the message is deleted only once every notification it carried has been
// acked, so a failed object keeps the whole message redeliverable.
type Source struct {
	client   Client
	queueURL string
	logger   *slog.Logger
	pending  []domain.Notification
}

// NewSource creates a Source polling the given queue.
func NewSource(client Client, queueURL string, logger *slog.Logger) *Source {
	return &Source{client: client, queueURL: queueURL, logger: logger}
}

// Next returns the next notification, long-polling SQS when the local
// buffer is drained. Messages that do not parse as object-created events
// are deleted immediately: redelivering them can never succeed.
func (s *Source) Next(ctx context.Context) (domain.Notification, error) {
	for len(s.pending) == 0 {
		out, err := s.client.ReceiveMessage(ctx, &awssqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
		})
		if err != nil {
			return domain.Notification{}, fmt.Errorf("receive from sqs: %w", err)
		}

		for _, msg := range out.Messages {
			notifications, err := domain.ParseObjectCreatedEvent([]byte(aws.ToString(msg.Body)))
			if err != nil || len(notifications) == 0 {
				if err != nil {
					s.logger.Warn("dropping unparseable queue message", "error", err)
				}
				s.deleteMessage(ctx, msg.ReceiptHandle)
				continue
			}
			ack := newMessageAck(s, msg.ReceiptHandle, len(notifications))
			for i := range notifications {
				notifications[i].Ack = ack
			}
			s.pending = append(s.pending, notifications...)
		}
	}

	n := s.pending[0]
	s.pending = s.pending[1:]
	return n, nil
}

// Close releases nothing; the SQS client is owned by the caller.
func (s *Source) Close() error {
	return nil
}

// newMessageAck returns an ack shared by every notification from one queue
// message. The message is deleted when the last notification acks.
func newMessageAck(s *Source, receipt *string, count int) func() error {
	var mu sync.Mutex
	remaining := count
	return func() error {
		mu.Lock()
		defer mu.Unlock()
		remaining--
		if remaining > 0 {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		defer cancel()
		_, err := s.client.DeleteMessage(ctx, &awssqs.DeleteMessageInput{
			QueueUrl:      aws.String(s.queueURL),
			ReceiptHandle: receipt,
		})
		if err != nil {
			return fmt.Errorf("delete sqs message: %w", err)
		}
		return nil
	}
}

func (s *Source) deleteMessage(ctx context.Context, receipt *string) {
	_, err := s.client.DeleteMessage(ctx, &awssqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: receipt,
	})
	if err != nil {
		s.logger.Warn("delete sqs message failed", "error", err)
	}
}
