package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// objectCreatedEvent is the S3-style bucket notification envelope. MinIO
// publishes the same shape to message brokers, so one parser serves every
// notification source.
type objectCreatedEvent struct {
	Records []struct {
		S3 struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// ParseObjectCreatedEvent extracts the notifications carried by one event
// payload. A single payload may announce several created objects. Object
// keys arrive URL-encoded (spaces as '+') and are decoded here.
func ParseObjectCreatedEvent(payload []byte) ([]Notification, error) {
	var event objectCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("parse object-created event: %w", err)
	}

	notifications := make([]Notification, 0, len(event.Records))
	for _, record := range event.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("decode object key %q: %w", record.S3.Object.Key, err)
		}
		if record.S3.Bucket.Name == "" || key == "" {
			continue
		}
		notifications = append(notifications, Notification{
			Bucket: record.S3.Bucket.Name,
			Key:    key,
		})
	}
	return notifications, nil
}
