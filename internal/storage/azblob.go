package storage

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/storage"

	"github.com/ethetl/ethetl/internal/apperrors"
	cfgpkg "github.com/ethetl/ethetl/internal/config"
)

// Azblob is the Azure Blob Storage Operator backend (storage.azblob.*), built
// on the classic azure-sdk-for-go/storage client.
type Azblob struct {
	container *storage.Container
	root      string
}

// NewAzblob authenticates against cfg.AccountName/AccountKey (or, when
// EndpointURL overrides the default blob endpoint, against that endpoint — for
// Azurite / other Azure-compatible emulators) and binds to cfg.Container.
func NewAzblob(cfg cfgpkg.AzblobStorageConfig) (*Azblob, error) {
	var client storage.Client
	var err error
	if cfg.EndpointURL != "" {
		client, err = storage.NewClient(cfg.AccountName, cfg.AccountKey, cfg.EndpointURL, storage.DefaultAPIVersion, true)
	} else {
		client, err = storage.NewBasicClient(cfg.AccountName, cfg.AccountKey)
	}
	if err != nil {
		return nil, &apperrors.ConfigError{Field: "storage.azblob", Reason: err.Error()}
	}

	blobSvc := client.GetBlobService()
	return &Azblob{
		container: blobSvc.GetContainerReference(cfg.Container),
		root:      cfg.Root,
	}, nil
}

func (o *Azblob) name(p string) string { return strings.TrimPrefix(path.Join(o.root, p), "/") }

// Put uploads data as a block blob, overwriting any existing blob of the same
// name.
func (o *Azblob) Put(ctx context.Context, p string, data []byte) error {
	blob := o.container.GetBlobReference(o.name(p))
	if err := blob.CreateBlockBlobFromReader(bytes.NewReader(data), nil); err != nil {
		return &apperrors.TransientError{Op: "azblob.put", Err: err}
	}
	return nil
}

// Get downloads the named blob in full.
func (o *Azblob) Get(ctx context.Context, p string) ([]byte, error) {
	blob := o.container.GetBlobReference(o.name(p))
	exists, err := blob.Exists()
	if err != nil {
		return nil, &apperrors.TransientError{Op: "azblob.get", Err: err}
	}
	if !exists {
		return nil, &ObjectNotFoundError{Path: p}
	}
	reader, err := blob.Get(nil)
	if err != nil {
		return nil, &apperrors.TransientError{Op: "azblob.get", Err: err}
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// Stat reports whether the named blob exists.
func (o *Azblob) Stat(ctx context.Context, p string) (bool, error) {
	blob := o.container.GetBlobReference(o.name(p))
	exists, err := blob.Exists()
	if err != nil {
		return false, &apperrors.TransientError{Op: "azblob.stat", Err: err}
	}
	return exists, nil
}
