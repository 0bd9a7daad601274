package writer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethetl/ethetl/internal/config"
	"github.com/ethetl/ethetl/internal/encode"
	"github.com/ethetl/ethetl/internal/storage"
)

func testChunk() encode.Chunk {
	return encode.Chunk{
		Schema: encode.Schema{Fields: []encode.Field{
			{Name: "number", Type: encode.TypeUint64},
			{Name: "hash", Type: encode.TypeString},
			{Name: "value", Type: encode.TypeDecimal},
		}},
		Rows: [][]interface{}{
			{uint64(1), "0xaa", "100"},
			{uint64(2), "0xbb", "425509391054159329896"},
		},
	}
}

func TestEncodeCSV(t *testing.T) {
	data, err := encodeCSV(testChunk())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "number,hash,value", lines[0])
	assert.Equal(t, "1,0xaa,100", lines[1])
	assert.Equal(t, "2,0xbb,425509391054159329896", lines[2])
}

func TestEncodeCSVEmptyChunkStillHasHeader(t *testing.T) {
	chunk := testChunk()
	chunk.Rows = nil

	data, err := encodeCSV(chunk)
	require.NoError(t, err)
	assert.Equal(t, "number,hash,value\n", string(data))
}

func TestEncodeParquetProducesMagic(t *testing.T) {
	data, err := encodeParquet(testChunk())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
	assert.Equal(t, "PAR1", string(data[len(data)-4:]))
}

func TestWritePutsWithExtension(t *testing.T) {
	op := storage.NewFS(config.FSStorageConfig{DataPath: t.TempDir()})
	ctx := context.Background()

	require.NoError(t, Write(ctx, op, "blocks/blocks_1_2", testChunk(), config.FormatCSV))

	exists, err := op.Stat(ctx, "blocks/blocks_1_2.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	op := storage.NewFS(config.FSStorageConfig{DataPath: t.TempDir()})
	err := Write(context.Background(), op, "x/x_1_2", testChunk(), config.OutputFormat("orc"))
	assert.Error(t, err)
}
