package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethetl/ethetl/internal/config"
)

func TestFSPutGetStat(t *testing.T) {
	op := NewFS(config.FSStorageConfig{DataPath: t.TempDir()})
	ctx := context.Background()

	require.NoError(t, op.Put(ctx, "blocks/blocks_0_9.csv", []byte("hello")))

	data, err := op.Get(ctx, "blocks/blocks_0_9.csv")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	exists, err := op.Stat(ctx, "blocks/blocks_0_9.csv")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = op.Stat(ctx, "blocks/blocks_10_19.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFSPutOverwrites(t *testing.T) {
	op := NewFS(config.FSStorageConfig{DataPath: t.TempDir()})
	ctx := context.Background()

	require.NoError(t, op.Put(ctx, "a.json", []byte("one")))
	require.NoError(t, op.Put(ctx, "a.json", []byte("two")))

	data, err := op.Get(ctx, "a.json")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestFSGetMissingIsNotFound(t *testing.T) {
	op := NewFS(config.FSStorageConfig{DataPath: t.TempDir()})

	_, err := op.Get(context.Background(), "nope.txt")
	var notFound *ObjectNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestNewSelectsBackend(t *testing.T) {
	op, err := New(config.StorageConfig{
		Type: config.StorageFS,
		FS:   config.FSStorageConfig{DataPath: t.TempDir()},
	})
	require.NoError(t, err)
	assert.IsType(t, &FS{}, op)

	_, err = New(config.StorageConfig{Type: config.StorageType("gcs")})
	assert.Error(t, err)
}
