// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"fmt"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pdiddy/content-engine/pkg/types"
)

// MinioUploader implements Uploader for MinIO and other S3-compatible stores.
type MinioUploader struct {
	client *minio.Client
	bucket string
}

// NewMinioUploader connects to cfg.Endpoint and creates cfg.Bucket when it
// does not exist yet.
func NewMinioUploader(ctx context.Context, cfg types.PublishConfig) (*MinioUploader, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: publish endpoint and bucket are required", types.ErrConfig)
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing publish endpoint: %v", types.ErrConfig, err)
	}
	host := u.Host
	if host == "" {
		// Bare host:port without a scheme.
		host = cfg.Endpoint
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: checking bucket %s: %v", types.ErrService, cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%w: creating bucket %s: %v", types.ErrService, cfg.Bucket, err)
		}
	}

	return &MinioUploader{client: client, bucket: cfg.Bucket}, nil
}

// Upload stores filePath under key, replacing any existing object.
func (m *MinioUploader) Upload(ctx context.Context, key, filePath, contentType string) error {
	_, err := m.client.FPutObject(ctx, m.bucket, key, filePath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%w: uploading %s: %v", types.ErrService, key, err)
	}
	return nil
}
