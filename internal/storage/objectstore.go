package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/senyabanana/tender-board/internal/router/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage - интерфейс хранилища вложений тендера.
// Принимает содержимое файла и имя, возвращает ссылку для скачивания.
type ObjectStorage interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// MinioStorage - реализация ObjectStorage поверх S3-совместимого хранилища.
type MinioStorage struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// NewMinioStorage создает клиент хранилища и проверяет, что bucket существует.
func NewMinioStorage(cfg config.Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.StorageBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.StorageBucket, err)
	}
	if !exists {
		if err = client.MakeBucket(context.Background(), cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.StorageBucket, err)
		}
	}

	return &MinioStorage{
		client:   client,
		endpoint: cfg.StorageEndpoint,
		bucket:   cfg.StorageBucket,
		useSSL:   cfg.StorageUseSSL,
	}, nil
}

// Upload загружает файл под ключом files/<имя> и возвращает ссылку для скачивания.
func (s *MinioStorage) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("files/%s", name)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName), nil
}
