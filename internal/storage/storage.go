// Package storage implements the Storage Operator: a minimal
// object-store abstraction — put/get/stat — backed by the local filesystem, S3,
// or Azure Blob. Every `put` is independent and safe for concurrent use by many
// Chunk Pipelines at once.
package storage

import (
	"context"
	"fmt"

	"github.com/ethetl/ethetl/internal/apperrors"
	"github.com/ethetl/ethetl/internal/config"
)

// Operator is the object-store abstraction the Dataset Writer and Checkpoint
// writer use. Implementations must treat `path` as relative to whatever root the
// backend was configured with (storage.fs.data_path, storage.s3.root or
// storage.azblob.root); callers include output_dir in `path` themselves.
type Operator interface {
	// Put writes data at path, overwriting any existing object.
	Put(ctx context.Context, path string, data []byte) error
	// Get reads the object at path in full. Returns a TransientError if the
	// backend is unreachable, or an *ObjectNotFoundError if the object is
	// absent — callers distinguish "doesn't exist yet" (e.g. no checkpoint on
	// first run) from a transport failure.
	Get(ctx context.Context, path string) ([]byte, error)
	// Stat reports whether path exists without reading its contents.
	Stat(ctx context.Context, path string) (exists bool, err error)
}

// ObjectNotFoundError is returned by Get when path has no backing object. Stat
// reports a missing object as (false, nil) instead.
type ObjectNotFoundError struct{ Path string }

func (e *ObjectNotFoundError) Error() string { return fmt.Sprintf("object not found: %s", e.Path) }

// New constructs the Operator selected by cfg.Type. A ConfigError for an unrecognized type would
// already have been caught by config.Load; New re-checks defensively since it
// can be called independent of that validation path.
func New(cfg config.StorageConfig) (Operator, error) {
	switch cfg.Type {
	case config.StorageFS:
		return NewFS(cfg.FS), nil
	case config.StorageS3:
		return NewS3(cfg.S3)
	case config.StorageAzure:
		return NewAzblob(cfg.Azblob)
	default:
		return nil, &apperrors.ConfigError{Field: "storage.type", Reason: fmt.Sprintf("unsupported storage type %q", cfg.Type)}
	}
}
