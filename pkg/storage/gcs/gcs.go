// Package gcs implements the Google Cloud Storage adapter.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Config holds GCS storage configuration.
type Config struct {
	Bucket string
	Prefix string
	// Endpoint points the client at a storage emulator (fake-gcs-server); empty uses GCS.
	Endpoint string
}

// Storage implements the storage.Storage interface on a GCS bucket.
type Storage struct {
	client *storage.Client
	bucket string
	prefix string
}

// New creates a GCS adapter using application default credentials, or an
// unauthenticated client when an emulator endpoint is configured.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var opts []option.ClientOption
	if endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"); endpoint != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", endpoint)
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// PutObject streams data into the object, replacing any existing generation.
func (s *Storage) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	w := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gcs object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gcs writer: %w", err)
	}
	return nil
}

// GetObject opens a reader on the object.
func (s *Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("object not found: %s: %w", key, os.ErrNotExist)
		}
		return nil, fmt.Errorf("open gcs reader: %w", err)
	}
	return r, nil
}

// Location returns the gs:// URI of key.
func (s *Storage) Location(key string) string {
	return "gs://" + s.bucket + "/" + s.objectName(key)
}

// Type returns "gcs" as the storage type identifier.
func (s *Storage) Type() string {
	return "gcs"
}

// Close releases the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) objectName(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}
