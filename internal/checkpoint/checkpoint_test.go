package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethetl/ethetl/internal/config"
	"github.com/ethetl/ethetl/internal/storage"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	op := storage.NewFS(config.FSStorageConfig{DataPath: t.TempDir()})
	ctx := context.Background()

	cp := Checkpoint{Start: 14000000, End: 14039999}
	require.NoError(t, cp.Save(ctx, op, BatchFile))

	loaded, err := Load(ctx, op, BatchFile)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cp, *loaded)
}

func TestLoadMissingReturnsNil(t *testing.T) {
	op := storage.NewFS(config.FSStorageConfig{DataPath: t.TempDir()})

	cp, err := Load(context.Background(), op, StreamFile)
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestSaveOverwrites(t *testing.T) {
	op := storage.NewFS(config.FSStorageConfig{DataPath: t.TempDir()})
	ctx := context.Background()

	require.NoError(t, Checkpoint{Start: 0, End: 999}.Save(ctx, op, BatchFile))
	require.NoError(t, Checkpoint{Start: 1000, End: 1999}.Save(ctx, op, BatchFile))

	loaded, err := Load(ctx, op, BatchFile)
	require.NoError(t, err)
	assert.Equal(t, uint64(1999), loaded.End)
}

func TestCheckpointWireFormat(t *testing.T) {
	op := storage.NewFS(config.FSStorageConfig{DataPath: t.TempDir()})
	ctx := context.Background()

	require.NoError(t, Checkpoint{Start: 1, End: 2}.Save(ctx, op, BatchFile))

	raw, err := op.Get(ctx, BatchFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":1,"end":2}`, string(raw))
}
