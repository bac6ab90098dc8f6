package objectclient

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/markdave123-py/PhotoAlbum/internal/config"
	"github.com/markdave123-py/PhotoAlbum/internal/logger"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

func TestMinioClient_UploadFile(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set; skipping MinIO integration test")
	}

	c := &cfg.Config{
		MinioEndpoint:  endpoint,
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		AwsRegion:      "us-east-1",
	}
	client, err := NewMinioClient(c, logger.Discard())
	require.NoError(t, err)

	ctx := context.Background()
	bucket := "photoalbum-test"
	exists, err := client.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	key := fmt.Sprintf("%d_test.png", time.Now().UnixMilli())
	url, err := client.UploadFile(ctx, &models.UploadInput{
		Key:         key,
		Bucket:      bucket,
		ContentType: "image/png",
		Labels:      "integration",
		Data:        []byte("png-bytes"),
	})
	require.NoError(t, err)
	assert.Contains(t, url, key)

	info, err := client.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, "integration", info.UserMetadata["Customlabels"])
}

func TestNewObjectClient_None(t *testing.T) {
	client, err := NewObjectClient(context.Background(), &cfg.Config{SDKBackend: cfg.SDKBackendNone}, logger.Discard())

	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewObjectClient_Minio(t *testing.T) {
	client, err := NewObjectClient(context.Background(), &cfg.Config{
		SDKBackend:     cfg.SDKBackendMinio,
		MinioEndpoint:  "localhost:9000",
		MinioAccessKey: "minioadmin",
		MinioSecretKey: "minioadmin",
	}, logger.Discard())

	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "minio", client.Backend())
}

func TestNewObjectClient_Unknown(t *testing.T) {
	_, err := NewObjectClient(context.Background(), &cfg.Config{SDKBackend: "gcs"}, logger.Discard())
	assert.Error(t, err)
}
