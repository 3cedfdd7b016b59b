package s3

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver stores generation transcripts (the outbound contract and the raw
// model response) in an S3-compatible bucket for later audit.
type Archiver struct {
	bucket         string
	client         *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

// NewArchiver configures an archiver using the provided endpoint and credentials.
func NewArchiver(endpoint string, useSSL bool, accessKey, secretKey, bucket string, logger *slog.Logger) (*Archiver, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	}
	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), opts)
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	return &Archiver{
		bucket: bucket,
		client: minioClient,
		logger: logger,
	}, nil
}

// Archive writes the prompt and raw response as two objects under
// transcripts/<tenant>/<record>/. The raw response is kept verbatim, invalid
// JSON included, so rejected generations stay auditable.
func (a *Archiver) Archive(ctx context.Context, tenantID, recordID, promptText, rawResponse string) error {
	if tenantID == "" || recordID == "" {
		return errors.New("s3: tenant and record ids are required")
	}
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}

	prefix := fmt.Sprintf("transcripts/%s/%s", tenantID, recordID)
	if err := a.putText(ctx, prefix+"/prompt.txt", promptText, "text/plain"); err != nil {
		return err
	}
	if err := a.putText(ctx, prefix+"/completion.json", rawResponse, "application/json"); err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.Info("transcript archived", "bucket", a.bucket, "prefix", prefix)
	}
	return nil
}

func (a *Archiver) putText(ctx context.Context, key, body, contentType string) error {
	reader := strings.NewReader(body)
	_, err := a.client.PutObject(ctx, a.bucket, key, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("s3: put object %s: %w", key, err)
	}
	return nil
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	a.bucketInitOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			a.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
		}
	})
	return a.bucketInitErr
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}
