package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/ethetl/ethetl/internal/apperrors"
	"github.com/ethetl/ethetl/internal/config"
)

// FS is the local-filesystem Storage Operator backend (storage.fs.data_path).
// Objects are plain files rooted at DataPath; directories are created
// on demand so the Dataset Writer never has to know about path structure.
type FS struct {
	root string
}

// NewFS constructs an FS operator rooted at cfg.DataPath.
func NewFS(cfg config.FSStorageConfig) *FS {
	return &FS{root: cfg.DataPath}
}

func (f *FS) abs(path string) string { return filepath.Join(f.root, filepath.FromSlash(path)) }

// Put writes data to {root}/{path}, creating parent directories as needed and
// overwriting any existing file.
func (f *FS) Put(ctx context.Context, path string, data []byte) error {
	abs := f.abs(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return &apperrors.TransientError{Op: "fs.put", Err: err}
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return &apperrors.TransientError{Op: "fs.put", Err: err}
	}
	return nil
}

// Get reads {root}/{path} in full.
func (f *FS) Get(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(f.abs(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, &ObjectNotFoundError{Path: path}
	}
	if err != nil {
		return nil, &apperrors.TransientError{Op: "fs.get", Err: err}
	}
	return data, nil
}

// Stat reports whether {root}/{path} exists.
func (f *FS) Stat(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(f.abs(path))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &apperrors.TransientError{Op: "fs.stat", Err: err}
	}
	return true, nil
}
