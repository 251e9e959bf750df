// Package storage wraps the MinIO object store where song audio and cover
// images live.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/123ibadullah/MusicWebApplication/config"
	"github.com/123ibadullah/MusicWebApplication/logger"
)

var (
	minioClient *minio.Client
	bucket      string
	publicURL   string
)

// InitMinio connects to the MinIO server and ensures the media bucket exists.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{
			Region: cfg.MinioRegion,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("created bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	bucket = cfg.MinioBucket
	publicURL = strings.TrimRight(cfg.MinioPublicURL, "/")
	logger.Info("MinIO client initialized", logger.String("endpoint", cfg.MinioEndpoint))
	return nil
}

// GetMinioClient returns the shared MinIO client instance.
func GetMinioClient() *minio.Client {
	return minioClient
}

// UploadObject stores a stream under objectName and returns its public URL.
func UploadObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if minioClient == nil {
		return "", fmt.Errorf("MinIO client not initialized")
	}
	_, err := minioClient.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return PublicURL(objectName), nil
}

// RemoveObject deletes an object. Missing objects are not an error.
func RemoveObject(ctx context.Context, objectName string) error {
	if minioClient == nil {
		return fmt.Errorf("MinIO client not initialized")
	}
	err := minioClient.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil && !strings.Contains(err.Error(), "NoSuchKey") {
		return fmt.Errorf("failed to remove %s: %w", objectName, err)
	}
	return nil
}

// GetObject opens an object for reading.
func GetObject(ctx context.Context, objectName string) (*minio.Object, error) {
	if minioClient == nil {
		return nil, fmt.Errorf("MinIO client not initialized")
	}
	obj, err := minioClient.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", objectName, err)
	}
	return obj, nil
}

// PublicURL builds the client-facing URL for a stored object.
func PublicURL(objectName string) string {
	return publicURL + "/" + strings.TrimLeft(objectName, "/")
}
