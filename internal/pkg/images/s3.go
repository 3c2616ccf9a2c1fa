package images

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config points an S3Store at a bucket on MinIO or any S3 compatible service.
type S3Config struct {
	Endpoint  string // host:port or a URL
	UseSSL    bool
	AccessKey string
	SecretKey string
	Bucket    string
	// Region skips the bucket location lookup. Defaults to us-east-1.
	Region string
	// PublicBaseURL prefixes returned image URLs. Defaults to the endpoint.
	PublicBaseURL string
}

// S3Store keeps listing images in a bucket that is publicly readable.
type S3Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *slog.Logger

	mu          sync.Mutex
	bucketReady bool
}

func NewS3Store(cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	host, secure := endpoint, cfg.UseSSL
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host, secure = u.Host, u.Scheme == "https"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	base := strings.TrimSpace(cfg.PublicBaseURL)
	if base == "" {
		base = client.EndpointURL().String()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(base, "/"),
		logger:  logger,
	}, nil
}

// Put stores data under key and returns its public URL. Object keys are
// generated per upload, so objects are served as immutable.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.Trim(key, "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if err := s.prepareBucket(ctx); err != nil {
		return "", err
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}

	s.logger.Debug("image stored", "bucket", s.bucket, "key", key, "size", info.Size, "etag", info.ETag)
	return s.URL(key), nil
}

// URL is where the object under key is served from.
func (s *S3Store) URL(key string) string {
	return s.baseURL + "/" + url.PathEscape(s.bucket) + "/" + strings.TrimLeft(key, "/")
}

// prepareBucket creates the bucket with a public read policy on first use.
// A failed attempt is retried on the next upload.
func (s *S3Store) prepareBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketReady {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("s3: check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("s3: create bucket %s: %w", s.bucket, err)
		}
		policy, err := publicReadPolicy(s.bucket)
		if err != nil {
			return err
		}
		if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
			return fmt.Errorf("s3: set policy on %s: %w", s.bucket, err)
		}
		s.logger.Info("image bucket created", "bucket", s.bucket)
	}

	s.bucketReady = true
	return nil
}

type policyStatement struct {
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  []string            `json:"Resource"`
}

func publicReadPolicy(bucket string) (string, error) {
	doc := struct {
		Version   string            `json:"Version"`
		Statement []policyStatement `json:"Statement"`
	}{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"s3:GetObject"},
			Resource:  []string{"arn:aws:s3:::" + bucket + "/*"},
		}},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("s3: encode policy: %w", err)
	}
	return string(raw), nil
}

var _ Store = (*S3Store)(nil)
