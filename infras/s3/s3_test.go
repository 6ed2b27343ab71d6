package s3_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"meetbook/config"
	"meetbook/infras/otel/mocks"
	"meetbook/infras/s3"

	awsS3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *awsS3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *awsS3.PutObjectInput, _ ...func(*awsS3.Options)) (*awsS3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)

	return &awsS3.PutObjectOutput{}, f.err
}

func TestUploadFileBytes(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.BucketName = "default-bucket"
	cfg.External.S3.PublicDomain = "https://cdn.example.com/"

	putter := &fakePutter{}
	client := s3.NewWithClient(cfg, putter, mocks.NewOtel())

	url, err := client.UploadFileBytes(context.Background(), "", "rosters/e1", "sheet.csv", "text/csv", []byte("a,b"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/rosters/e1/sheet.csv", url)
	assert.Equal(t, "default-bucket", *putter.input.Bucket)
	assert.Equal(t, "rosters/e1/sheet.csv", *putter.input.Key)
	assert.Equal(t, int64(3), *putter.input.ContentLength)
	assert.Equal(t, []byte("a,b"), putter.body)
}

func TestUploadFileBytes_NoPublicDomain(t *testing.T) {
	putter := &fakePutter{}
	client := s3.NewWithClient(&config.Config{}, putter, mocks.NewOtel())

	url, err := client.UploadFileBytes(context.Background(), "archive", "", "sheet.xlsx", "application/octet-stream", nil)

	require.NoError(t, err)
	assert.Equal(t, "s3://archive/sheet.xlsx", url)
}

func TestUploadFileBytes_Error(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	client := s3.NewWithClient(&config.Config{}, putter, mocks.NewOtel())

	_, err := client.UploadFileBytes(context.Background(), "archive", "x", "sheet.csv", "text/csv", []byte("x"))

	assert.ErrorContains(t, err, "access denied")
}
