package services

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReceiptStorage keeps payment receipt files in a single object bucket.
type ReceiptStorage interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error
	GetPresignedURL(ctx context.Context, objectName string) (string, error)
	Delete(ctx context.Context, objectName string) error
	EnsureBucketExists(ctx context.Context) error
}

type minioReceiptStorage struct {
	client     *minio.Client
	bucket     string
	presignTTL time.Duration
}

func NewMinioReceiptStorage(endpoint, accessKey, secretKey string, useSSL bool, bucket string, presignTTL time.Duration) (ReceiptStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioReceiptStorage{client: client, bucket: bucket, presignTTL: presignTTL}, nil
}

func (m *minioReceiptStorage) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioReceiptStorage) GetPresignedURL(ctx context.Context, objectName string) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, m.presignTTL, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioReceiptStorage) Delete(ctx context.Context, objectName string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
}

func (m *minioReceiptStorage) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
