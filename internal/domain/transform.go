package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedRecord marks a line that failed to parse as a JSON object.
// The record is dropped and processing of the batch continues.
var ErrMalformedRecord = errors.New("malformed record")

// Policy controls how a single record is rewritten. The field names are
// configuration, not logic, so the transformer is reusable across event
// families.
type Policy struct {
	// PIIFields are removed from every record when present.
	PIIFields []string
	// TimestampField is set to the transformation time, overwriting any
	// field of the same name the producer may have sent.
	TimestampField string
}

// TransformRecord rewrites one raw event line into its processed form:
// parse, strip the PII fields, stamp the processing time, re-serialize.
// Clickstream producers guarantee nothing beyond "JSON object per line",
// so every other field passes through untouched and unvalidated.
func TransformRecord(line []byte, policy Policy) ([]byte, error) {
	var event map[string]any
	if err := json.Unmarshal(line, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if event == nil {
		return nil, fmt.Errorf("%w: JSON null is not an object", ErrMalformedRecord)
	}

	for _, field := range policy.PIIFields {
		delete(event, field)
	}
	event[policy.TimestampField] = clock.Now().UTC().Format(time.RFC3339)

	out, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("serialize record: %w", err)
	}
	return out, nil
}
