package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Store persists objects in an S3 bucket with server-side encryption.
type Store struct {
	client      *s3.Client
	bucket      string
	prefix      string
	sseKMSKeyID string
}

// Options configures the S3-backed store.
type Options struct {
	Region      string
	Bucket      string
	Prefix      string
	SSEKMSKeyID string
}

// NewStore builds a Store using the default AWS credential chain.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("s3 store: bucket is required")
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 store: load aws config: %w", err)
	}
	return &Store{
		client:      s3.NewFromConfig(cfg),
		bucket:      opts.Bucket,
		prefix:      normalizePrefix(opts.Prefix),
		sseKMSKeyID: strings.TrimSpace(opts.SSEKMSKeyID),
	}, nil
}

// SaveWithKey uploads the object under prefix/storageKey.
func (s *Store) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	key, err := s.applyPrefix(storageKey)
	if err != nil {
		return 0, err
	}
	counter := &countingReader{inner: r}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   counter,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if s.sseKMSKeyID != "" {
		input.ServerSideEncryption = types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = aws.String(s.sseKMSKeyID)
	} else {
		input.ServerSideEncryption = types.ServerSideEncryptionAes256
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return counter.n, fmt.Errorf("s3 store: put object: %w", err)
	}
	return counter.n, nil
}

// Open streams the object body. The caller must close the reader.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	key, err := s.applyPrefix(storageKey)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 store: get object: %w", err)
	}
	return out.Body, nil
}

func (s *Store) applyPrefix(storageKey string) (string, error) {
	key := strings.TrimSpace(strings.TrimPrefix(storageKey, "/"))
	if key == "" {
		return "", errors.New("s3 store: storage key is required")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("s3 store: invalid storage key %q", storageKey)
	}
	if s.prefix == "" {
		return key, nil
	}
	return s.prefix + "/" + key, nil
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

// countingReader counts bytes as they stream to S3.
type countingReader struct {
	inner io.Reader
	n     int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.inner.Read(p)
	c.n += int64(n)
	return n, err
}
