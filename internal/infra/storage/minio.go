package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

func contentTypeFor(localPath string) string {
	switch filepath.Ext(localPath) {
	case ".xml":
		return "application/xml"
	case ".html":
		return "text/html"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// Upload implementasi ArtifactStore
func (s *Store) Upload(ctx context.Context, localPath, key string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: contentTypeFor(localPath),
	})
	if err != nil {
		return "", err
	}

	// URL publik (jika bucket public), kalau private harus generate presigned URL
	url := fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucketName, key)
	return url, nil
}

// UploadAndCleanup upload file ke MinIO dan hapus file lokal setelahnya
func (s *Store) UploadAndCleanup(ctx context.Context, localPath, key string) (string, error) {
	url, err := s.Upload(ctx, localPath, key)
	if err != nil {
		return "", err
	}

	if removeErr := os.Remove(localPath); removeErr != nil {
		// upload sudah berhasil; just warn
		fmt.Printf("Warning: failed to remove local file %s: %v\n", localPath, removeErr)
	}

	return url, nil
}
