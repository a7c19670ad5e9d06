// Package s3service reads and publishes catalog snapshots in S3.
package s3service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"auctus-engine/internal/catalog"
	appConfig "auctus-engine/internal/config"
	"auctus-engine/internal/utils"
)

// API is the part of the S3 client the service uses.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Service handles S3 operations on one bucket.
type Service struct {
	client     API
	bucketName string
}

// NewService creates a new S3 service for the configured bucket and region.
func NewService(ctx context.Context, appCfg *appConfig.Config) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(appCfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithClient(s3.NewFromConfig(cfg), appCfg.S3Bucket), nil
}

// NewWithClient creates a service over an existing client.
func NewWithClient(client API, bucketName string) *Service {
	return &Service{
		client:     client,
		bucketName: bucketName,
	}
}

// DownloadFile downloads an object. A missing key is reported as fs.ErrNotExist.
func (s *Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%s: %w", key, fs.ErrNotExist)
		}
		utils.GetLogger().Error("Failed to download file from S3",
			zap.String("bucket", s.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	utils.GetLogger().Debug("Downloaded file from S3",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return data, nil
}

// UploadFile uploads an object.
func (s *Service) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		utils.GetLogger().Error("Failed to upload file to S3",
			zap.String("bucket", s.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload file: %w", err)
	}

	utils.GetLogger().Info("Uploaded file to S3",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return nil
}

// LoadCatalog reads the catalog files stored under prefix.
func (s *Service) LoadCatalog(ctx context.Context, prefix string) (*catalog.Snapshot, error) {
	snap, err := catalog.Parse(func(name string) ([]byte, error) {
		return s.DownloadFile(ctx, path.Join(prefix, name))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from s3://%s/%s: %w", s.bucketName, prefix, err)
	}
	return snap, nil
}

// PublishCatalog writes every collection of data under prefix and returns the number of files written.
func (s *Service) PublishCatalog(ctx context.Context, prefix string, data catalog.Data) (int, error) {
	files, err := catalog.Marshal(data)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, name := range catalog.Files() {
		if err := s.UploadFile(ctx, path.Join(prefix, name), files[name], "application/json"); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
