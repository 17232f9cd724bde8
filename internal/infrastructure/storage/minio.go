package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fieldops-backend/internal/domain/photo"
	"fieldops-backend/pkg/id"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Region skips the bucket-location lookup when set.
	Region string
	// PublicURL prefixes returned references; defaults to the endpoint URL.
	PublicURL string
	MaxBytes  int64
}

// MinioStore keeps evidence photos in an S3-compatible bucket.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	maxBytes  int64
	log       *zap.Logger
}

func NewMinioStore(cfg MinioConfig, log *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	base := cfg.PublicURL
	if base == "" {
		base = client.EndpointURL().String()
	}
	return &MinioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(base, "/"),
		maxBytes:  cfg.MaxBytes,
		log:       log,
	}, nil
}

// EnsureBucket creates the bucket on first start.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists: %w", err)
	}
	if ok {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	s.log.Info("minio: bucket created", zap.String("bucket", s.bucket))
	return nil
}

func (s *MinioStore) Put(ctx context.Context, u photo.Upload) (string, error) {
	if err := photo.CheckContentType(u.ContentType); err != nil {
		return "", err
	}
	if s.maxBytes > 0 && u.Size > s.maxBytes {
		return "", photo.ErrTooLarge
	}
	u, err := photo.Inspect(u)
	if err != nil {
		return "", err
	}
	objectName := objectKey(time.Now().UTC(), u)
	if _, err := s.client.PutObject(ctx, s.bucket, objectName, u.Body, u.Size, minio.PutObjectOptions{
		ContentType: u.ContentType,
	}); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	s.log.Debug("photo uploaded", zap.String("bucket", s.bucket), zap.String("object", objectName), zap.Int64("size", u.Size))
	return s.publicURL + "/" + s.bucket + "/" + objectName, nil
}

// objectKey spreads uploads by day: submissions/2024/05/01/<id>.jpg
func objectKey(now time.Time, u photo.Upload) string {
	return fmt.Sprintf("submissions/%s/%s%s", now.Format("2006/01/02"), id.NewID32(), u.Ext())
}
