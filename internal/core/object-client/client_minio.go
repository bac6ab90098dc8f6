package objectclient

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	cfg "github.com/markdave123-py/PhotoAlbum/internal/config"
	"github.com/markdave123-py/PhotoAlbum/internal/core"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

// MinioClient stores objects in any S3-compatible service (MinIO locally).
type MinioClient struct {
	client   *minio.Client
	endpoint string
	useSSL   bool
	logger   *slog.Logger
}

func NewMinioClient(cfg *cfg.Config, logger *slog.Logger) (*MinioClient, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.AwsRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	logger.Info("object client ready", slog.String("backend", "minio"), slog.String("endpoint", cfg.MinioEndpoint))
	return &MinioClient{
		client:   client,
		endpoint: cfg.MinioEndpoint,
		useSSL:   cfg.MinioUseSSL,
		logger:   logger,
	}, nil
}

func (c *MinioClient) Backend() string { return cfg.SDKBackendMinio }

// UploadFile puts the object with the labels as user metadata and returns its
// path-style URL on the MinIO endpoint.
func (c *MinioClient) UploadFile(ctx context.Context, in *models.UploadInput) (string, error) {
	_, err := c.client.PutObject(ctx, in.Bucket, in.Key, bytes.NewReader(in.Data), int64(len(in.Data)), minio.PutObjectOptions{
		ContentType:  in.ContentType,
		UserMetadata: map[string]string{metaCustomLabels: in.Labels},
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", in.Key, err)
	}

	scheme := "http"
	if c.useSSL {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, c.endpoint, in.Bucket, models.EscapeKey(in.Key))
	c.logger.DebugContext(ctx, "minio object stored", slog.String("url", url))
	return url, nil
}

var _ core.ObjectClient = (*MinioClient)(nil)
