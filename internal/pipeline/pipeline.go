package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/clickstream-processor/internal/domain"
	"github.com/couchcryptid/clickstream-processor/internal/observability"
)

// Source is the port for receiving object-created notifications. Next
// blocks until a notification is available or the context is cancelled.
type Source interface {
	Next(ctx context.Context) (domain.Notification, error)
	Close() error
}

// Pipeline drives the fetch-handle-ack loop over a notification source.
type Pipeline struct {
	source  Source
	handler *Handler
	logger  *slog.Logger
	metrics *observability.Metrics

	// ready is read by the readiness probe from another goroutine.
	ready atomic.Bool
}

// New creates a Pipeline over the given source and handler.
func New(source Source, handler *Handler, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  source,
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

// Ready reports whether the pipeline has completed at least one cycle.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Run executes the consume loop until the context is cancelled. Source and
// handler failures back off exponentially; a failed notification is left
// unacked so the source redelivers it. Duplicate deliveries are safe since
// the destination write is a whole-object overwrite.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started")
	p.metrics.ConsumerRunning.Set(1)
	defer p.metrics.ConsumerRunning.Set(0)

	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		n, err := p.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("receive notification failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}

		start := time.Now()

		if err := p.handler.Handle(ctx, n); err != nil {
			if errors.Is(err, ErrOutOfScope) {
				p.logger.Warn("ignoring out-of-contract notification", "bucket", n.Bucket, "key", n.Key)
				p.metrics.ObjectsIgnored.Inc()
				p.ack(n)
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("handle notification failed", "bucket", n.Bucket, "key", n.Key, "error", err)
			p.metrics.ObjectsFailed.Inc()
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}

		p.metrics.ObjectsProcessed.Inc()
		p.ack(n)

		p.metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
		backoff = 200 * time.Millisecond
		p.ready.Store(true)
	}
}

func (p *Pipeline) ack(n domain.Notification) {
	if n.Ack == nil {
		return
	}
	if err := n.Ack(); err != nil {
		p.logger.Warn("ack notification failed", "bucket", n.Bucket, "key", n.Key, "error", err)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
