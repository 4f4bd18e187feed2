/*
Package storage stores uploaded file contents in an S3-compatible bucket.

File metadata lives in PostgreSQL; this package only moves bytes and issues short-lived
download links.
*/
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when the key does not exist in the bucket.
var ErrObjectNotFound = errors.New("storage: object not found")

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Object is an open object body. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectInfo describes a stored object without reading it.
type ObjectInfo struct {
	ContentType string
	Size        int64
}

// StorageService defines the public interface for the file storage service.
type StorageService interface {
	// Upload streams body into the bucket under key.
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error

	// Open returns a reader over the object stored under key.
	Open(ctx context.Context, key string) (*Object, error)

	// Stat returns the size and content type of an object.
	Stat(ctx context.Context, key string) (ObjectInfo, error)

	// PresignDownload generates a pre-signed URL that downloads the object as filename.
	PresignDownload(ctx context.Context, key, filename string, duration time.Duration) (string, error)

	// Delete removes the file specified by the given key.
	Delete(ctx context.Context, key string) error
}

// NewStorageService is the factory function for StorageService.
func NewStorageService(ctx context.Context, cfg ServiceConfig) (StorageService, error) {
	// Only S3 compatible implementations are supported.
	return newS3Client(ctx, cfg)
}
