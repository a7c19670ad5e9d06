package s3service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctus-engine/internal/catalog"
	s3service "auctus-engine/internal/services/s3"
)

// memoryBucket is an in-memory stand-in for one S3 bucket.
type memoryBucket struct {
	objects      map[string][]byte
	contentTypes map[string]string
	getErr       error
	putErr       error
}

func newMemoryBucket() *memoryBucket {
	return &memoryBucket{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (b *memoryBucket) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	data, ok := b.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b *memoryBucket) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if b.putErr != nil {
		return nil, b.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(params.Key)
	b.objects[key] = data
	b.contentTypes[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestPublishThenLoadCatalog(t *testing.T) {
	ctx := context.Background()
	bucket := newMemoryBucket()
	svc := s3service.NewWithClient(bucket, "auctus-catalog-test")

	embedded, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	written, err := svc.PublishCatalog(ctx, "catalog/", embedded.Data())
	require.NoError(t, err)
	assert.Equal(t, len(catalog.Files()), written)
	assert.Contains(t, bucket.objects, "catalog/grants.json")
	assert.Equal(t, "application/json", bucket.contentTypes["catalog/grants.json"])

	loaded, err := svc.LoadCatalog(ctx, "catalog/")
	require.NoError(t, err)
	assert.Equal(t, embedded.Stats(), loaded.Stats())
}

func TestLoadCatalog_OptionalFilesMayBeAbsent(t *testing.T) {
	ctx := context.Background()
	bucket := newMemoryBucket()
	svc := s3service.NewWithClient(bucket, "auctus-catalog-test")

	embedded, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	_, err = svc.PublishCatalog(ctx, "v1", embedded.Data())
	require.NoError(t, err)
	delete(bucket.objects, "v1/jobs.json")

	loaded, err := svc.LoadCatalog(ctx, "v1")
	require.NoError(t, err)
	assert.Zero(t, loaded.Stats().Jobs)

	delete(bucket.objects, "v1/businesses.json")
	_, err = svc.LoadCatalog(ctx, "v1")
	assert.ErrorIs(t, err, catalog.ErrMissingFile)
}

func TestDownloadFile(t *testing.T) {
	ctx := context.Background()
	bucket := newMemoryBucket()
	svc := s3service.NewWithClient(bucket, "auctus-catalog-test")

	_, err := svc.DownloadFile(ctx, "nope.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bucket.getErr = errors.New("access denied")
	_, err = svc.DownloadFile(ctx, "nope.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "access denied")
}

func TestPublishCatalog_StopsOnUploadError(t *testing.T) {
	bucket := newMemoryBucket()
	bucket.putErr = errors.New("throttled")
	svc := s3service.NewWithClient(bucket, "auctus-catalog-test")

	written, err := svc.PublishCatalog(context.Background(), "catalog", catalog.Data{})
	require.Error(t, err)
	assert.Zero(t, written)
}
