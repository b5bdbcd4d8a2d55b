package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-action-board/pkg/config"
)

const exportPrefix = "exports"

// Upload is a stored export and a time limited link to it
type Upload struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MinIOClient stores board exports in an S3 compatible bucket
type MinIOClient struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	logger *zap.Logger
}

// NewMinIOClient creates a new MinIO client and makes sure the bucket exists
func NewMinIOClient(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*MinIOClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	client := &MinIOClient{
		client: minioClient,
		bucket: cfg.BucketName,
		expiry: expiry,
		logger: logger,
	}

	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucket creates the bucket when missing. Objects stay private; access goes through presigned URLs.
func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		m.logger.Info("created export bucket", zap.String("bucket", m.bucket))
	}
	return nil
}

// UploadExport stores a rendered export and returns a presigned download URL
func (m *MinIOClient) UploadExport(ctx context.Context, fileName string, content []byte, contentType string) (*Upload, error) {
	key := ObjectKey(fileName, time.Now())

	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	url, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.expiry, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	m.logger.Info("export uploaded",
		zap.String("bucket", m.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size),
	)

	return &Upload{
		Key:       key,
		URL:       url.String(),
		Size:      info.Size,
		ExpiresAt: time.Now().Add(m.expiry),
	}, nil
}

// ListExports lists the stored export keys, grouped by day
func (m *MinIOClient) ListExports(ctx context.Context) ([]string, error) {
	var files []string

	objectCh := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    exportPrefix + "/",
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		files = append(files, object.Key)
	}

	return files, nil
}

// ObjectKey places an export under a per-day prefix
func ObjectKey(fileName string, now time.Time) string {
	return path.Join(exportPrefix, now.UTC().Format("2006/01/02"), path.Base(fileName))
}
