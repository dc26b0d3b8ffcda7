package services

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/univault/univault-api/internal/config"
)

// PublicUploadPrefix is the URL path under which stored blobs are served.
const PublicUploadPrefix = "/uploads/"

// BlobStore holds uploaded file bytes addressed by their generated storage
// name. Remove is idempotent: removing an already-absent blob succeeds.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, int64, string, error)
	Remove(ctx context.Context, name string) error
	URL(name string) string
}

// NewBlobStore builds the backend selected by the configuration.
func NewBlobStore(cfg *config.Config) (BlobStore, error) {
	if cfg.StorageBackend == "minio" {
		return NewMinIOStore(cfg)
	}
	return NewLocalStore(cfg.UploadDir)
}

// LocalStore keeps blobs as plain files inside a single directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(name string) string {
	// Storage names are generated server-side; Base guards against
	// traversal if one ever arrives from a URL.
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	f, err := os.Create(s.path(name))
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(s.path(name))
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, int64, string, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, "", &NotFoundError{Entity: "File"}
		}
		return nil, 0, "", &StorageError{Op: "open", Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, "", &StorageError{Op: "open", Err: err}
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, info.Size(), contentType, nil
}

func (s *LocalStore) Remove(ctx context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return &StorageError{Op: "remove", Err: err}
	}
	return nil
}

func (s *LocalStore) URL(name string) string {
	return PublicUploadPrefix + name
}

// MinIOStore keeps blobs in an object storage bucket. URLs still point at
// the API's /uploads path; the serve handler streams from the bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(cfg *config.Config) (*MinIOStore, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, err
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinIOStore{client: client, bucket: cfg.MinIOBucket}, nil
}

func (s *MinIOStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

func (s *MinIOStore) Open(ctx context.Context, name string) (io.ReadCloser, int64, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, "", &StorageError{Op: "open", Err: err}
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, 0, "", &NotFoundError{Entity: "File"}
		}
		return nil, 0, "", &StorageError{Op: "open", Err: err}
	}

	contentType := stat.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return obj, stat.Size, contentType, nil
}

func (s *MinIOStore) Remove(ctx context.Context, name string) error {
	// RemoveObject succeeds on absent keys, matching the idempotency
	// contract without an extra existence check.
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return &StorageError{Op: "remove", Err: err}
	}
	return nil
}

func (s *MinIOStore) URL(name string) string {
	return PublicUploadPrefix + name
}
