package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/joshsymonds/facet/internal/models"
	"github.com/joshsymonds/facet/pkg/logger"
)

// S3API is the slice of the S3 client the store needs; tests provide fakes.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store persists the issue document as a single S3 object. Same contract
// as FileStore: seed fallback on a missing or corrupt object, last-writer-
// wins across writers.
type S3Store struct {
	client S3API
	logger logger.Logger
	bucket string
	key    string
}

// NewS3Store creates an S3-backed store using the default AWS credential
// chain.
func NewS3Store(ctx context.Context, bucket, key, region string, log logger.Logger) (*S3Store, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 store requires bucket and key")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, key, log), nil
}

// NewS3StoreWithClient creates an S3-backed store with an injected client.
func NewS3StoreWithClient(client S3API, bucket, key string, log logger.Logger) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		key:    key,
		logger: log,
	}
}

// Load reads the document object, falling back to the seed document when the
// object is missing, unreadable, or has no sections.
func (s *S3Store) Load(ctx context.Context) (*models.IssueDocument, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if !errors.As(err, &noKey) {
			s.logger.Warn("Failed to read issue document from S3", "bucket", s.bucket, "key", s.key, "error", err)
		}
		return s.seedFallback(ctx), nil
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		s.logger.Warn("Failed to read S3 object body", "key", s.key, "error", err)
		return s.seedFallback(ctx), nil
	}

	var doc models.IssueDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("Issue document in S3 is corrupt, falling back to seed", "key", s.key, "error", err)
		return s.seedFallback(ctx), nil
	}

	if len(doc.Sections) == 0 {
		return s.seedFallback(ctx), nil
	}

	return &doc, nil
}

// Save overwrites the document object. S3 puts are atomic per object.
func (s *S3Store) Save(ctx context.Context, doc *models.IssueDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return newStorageError("save", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return newStorageError("save", err)
	}

	s.logger.Debug("Saved issue document to S3", "bucket", s.bucket, "key", s.key, "bytes", len(data))
	return nil
}

func (s *S3Store) seedFallback(ctx context.Context) *models.IssueDocument {
	seed := SeedDocument()
	if len(seed.Sections) == 0 {
		return &models.IssueDocument{Sections: []models.Section{}}
	}

	if err := s.Save(ctx, seed); err != nil {
		s.logger.Warn("Failed to persist seed document to S3", "error", err)
	} else {
		s.logger.Info("Seeded issue document in S3", "bucket", s.bucket, "key", s.key)
	}
	return seed
}
