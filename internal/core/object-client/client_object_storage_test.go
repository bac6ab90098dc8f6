package objectclient

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/PhotoAlbum/internal/logger"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

// fakeS3 records single-part uploads. Multipart calls are never expected for
// the small bodies used here.
type fakeS3 struct {
	put  *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func TestS3Client_UploadFile(t *testing.T) {
	api := &fakeS3{}
	client := newS3Client(api, "us-east-1", logger.Discard())

	url, err := client.UploadFile(context.Background(), &models.UploadInput{
		Key:         "1000_cat.png",
		Bucket:      "photos",
		ContentType: "image/png",
		Labels:      "cat, pet",
		Data:        []byte("png-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "https://photos.s3.us-east-1.amazonaws.com/1000_cat.png", url)
	require.NotNil(t, api.put)
	assert.Equal(t, "photos", aws.ToString(api.put.Bucket))
	assert.Equal(t, "1000_cat.png", aws.ToString(api.put.Key))
	assert.Equal(t, "image/png", aws.ToString(api.put.ContentType))
	assert.Equal(t, "cat, pet", api.put.Metadata["customLabels"])
	assert.Equal(t, []byte("png-bytes"), api.body)
	assert.Equal(t, "s3", client.Backend())
}

func TestS3Client_UploadFileError(t *testing.T) {
	api := &fakeS3{err: errors.New("AccessDenied")}
	client := newS3Client(api, "us-east-1", logger.Discard())

	_, err := client.UploadFile(context.Background(), &models.UploadInput{
		Key:    "1000_cat.png",
		Bucket: "photos",
		Data:   []byte("png-bytes"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 upload failed")
	assert.Contains(t, err.Error(), "AccessDenied")
}
