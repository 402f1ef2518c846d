package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/clickstream-processor/internal/codec"
	"github.com/couchcryptid/clickstream-processor/internal/domain"
	"github.com/couchcryptid/clickstream-processor/internal/observability"
)

// Processor turns one raw object's bytes into one processed object's bytes.
// It holds no state between invocations; each call is a pure function of
// the input bytes (modulo the transformation timestamp).
type Processor struct {
	policy  domain.Policy
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewProcessor creates a Processor applying the given transformation policy.
func NewProcessor(policy domain.Policy, logger *slog.Logger, metrics *observability.Metrics) *Processor {
	return &Processor{policy: policy, logger: logger, metrics: metrics}
}

// Process decodes the compressed raw object, transforms each record, and
// re-encodes the survivors in input order. Malformed records are skipped
// and counted; only a codec failure is fatal, in which case no output
// bytes are returned. An empty object is not an error: it yields empty
// output and a zero outcome.
func (p *Processor) Process(raw []byte) ([]byte, domain.Outcome, error) {
	dec, err := codec.NewDecoder(raw)
	if err != nil {
		return nil, domain.Outcome{}, fmt.Errorf("decode raw object: %w", err)
	}

	var (
		outcome domain.Outcome
		lines   [][]byte
	)
	for {
		line, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.Outcome{}, fmt.Errorf("decode raw object: %w", err)
		}

		transformed, err := domain.TransformRecord(line, p.policy)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedRecord) {
				p.logger.Warn("skipping malformed record", "error", err)
				p.metrics.RecordsSkipped.Inc()
				outcome.Skipped++
				continue
			}
			return nil, domain.Outcome{}, fmt.Errorf("transform record: %w", err)
		}

		lines = append(lines, transformed)
		p.metrics.RecordsTransformed.Inc()
		outcome.Transformed++
	}

	return codec.Encode(lines), outcome, nil
}
