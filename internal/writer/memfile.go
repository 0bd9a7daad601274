package writer

import (
	"bytes"
	"io"

	"github.com/xitongsys/parquet-go/source"
)

// memFile implements xitongsys/parquet-go's source.ParquetFile interface over
// an in-memory buffer, so the Parquet path never touches disk before handing
// bytes to the Storage Operator in a single put. This is the same extension point
// github.com/xitongsys/parquet-go-source/s3 and /gcs use to target a non-local
// sink; here the sink is simply a growable byte buffer.
type memFile struct {
	buf *bytes.Buffer
}

func newMemFile() *memFile { return &memFile{buf: &bytes.Buffer{}} }

// Create returns a fresh sink and Open returns the receiver itself; neither
// looks at name, since the writer only ever opens one file for writing.
func (f *memFile) Create(name string) (source.ParquetFile, error) { return newMemFile(), nil }
func (f *memFile) Open(name string) (source.ParquetFile, error)   { return f, nil }

// Seek only needs to answer "what's the current length" (io.SeekEnd, offset 0),
// which is all parquet-go's row-group writer asks of an append-only sink.
func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	return int64(f.buf.Len()), nil
}

func (f *memFile) Read(b []byte) (int, error) { return 0, io.EOF }

func (f *memFile) Write(b []byte) (int, error) { return f.buf.Write(b) }

func (f *memFile) Close() error { return nil }

// Bytes returns the accumulated Parquet file content.
func (f *memFile) Bytes() []byte { return f.buf.Bytes() }
