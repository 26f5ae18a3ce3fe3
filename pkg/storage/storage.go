// Package storage defines where derived scene assets are written.
// Backends: local filesystem (default), S3-compatible object storage and Google Cloud Storage.
package storage

import (
	"context"
	"io"
)

// Storage defines the object operations the migrator needs.
type Storage interface {
	// PutObject writes data under key, replacing any existing object.
	// key uses forward slashes, e.g. "{trackID}/{scenePath}/{sceneRow}/{fileName}".
	PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error

	// GetObject retrieves an object. The caller must close the returned reader.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// Location returns a human readable location for key: a filesystem path for
	// local storage, s3://bucket/key or gs://bucket/key for object stores.
	Location(key string) string

	// Type returns the storage type identifier ("local", "s3" or "gcs").
	Type() string
}

// DirMaker is implemented by backends that have real directories.
type DirMaker interface {
	// EnsureDir creates the directory for prefix if it does not exist yet.
	EnsureDir(ctx context.Context, prefix string) error
}

// ReadAll reads a whole object into memory.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, error) {
	rc, err := s.GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
