package objectclient

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/markdave123-py/PhotoAlbum/internal/config"
	"github.com/markdave123-py/PhotoAlbum/internal/core"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

// metaCustomLabels is stored by S3 as the x-amz-meta-customlabels header.
const metaCustomLabels = "customLabels"

type S3Client struct {
	uploader *manager.Uploader
	region   string
	logger   *slog.Logger
}

// NewS3Client loads AWS configuration and returns an uploader bound to it.
// Static keys are used when both are configured; otherwise the default
// credential chain applies.
func NewS3Client(ctx context.Context, cfg *cfg.Config, logger *slog.Logger) (*S3Client, error) {
	if cfg.AwsRegion == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AwsRegion)}
	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	logger.Info("object client ready", slog.String("backend", "s3"), slog.String("region", cfg.AwsRegion))
	return newS3Client(s3.NewFromConfig(awsCfg), cfg.AwsRegion, logger), nil
}

func newS3Client(api manager.UploadAPIClient, region string, logger *slog.Logger) *S3Client {
	return &S3Client{
		uploader: manager.NewUploader(api),
		region:   region,
		logger:   logger,
	}
}

func (c *S3Client) Backend() string { return cfg.SDKBackendS3 }

// UploadFile uploads the object to S3 and returns its regional URL.
func (c *S3Client) UploadFile(ctx context.Context, in *models.UploadInput) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(in.Bucket),
		Key:         aws.String(in.Key),
		Body:        bytes.NewReader(in.Data),
		ContentType: aws.String(in.ContentType),
		Metadata:    map[string]string{metaCustomLabels: in.Labels},
	}

	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if _, err := c.uploader.Upload(ctxUpload, input); err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", in.Bucket, c.region, models.EscapeKey(in.Key))
	c.logger.DebugContext(ctx, "s3 object stored", slog.String("url", url))
	return url, nil
}

var _ core.ObjectClient = (*S3Client)(nil)
