package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store implements pipeline.ObjectStore over an S3 (or S3-compatible)
// bucket API. Reads and writes are whole-object; timeout and retry policy
// belong to the SDK client, not this adapter.
type Store struct {
	client *awss3.Client
	logger *slog.Logger
}

// NewStore creates a Store over the given S3 client.
func NewStore(client *awss3.Client, logger *slog.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Get downloads the full object body.
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return body, nil
}

// Put uploads the object body, overwriting any existing object at the key.
// The processed zone is plain NDJSON, hence the fixed content type.
func (s *Store) Put(ctx context.Context, bucket, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}
