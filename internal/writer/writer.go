// Package writer implements the Dataset Writer: serializes a
// Schema+Chunk to CSV or Parquet bytes entirely in memory and hands the result
// to the Storage Operator in a single put. No streaming upload is required or
// attempted.
package writer

import (
	"context"
	"fmt"

	"github.com/ethetl/ethetl/internal/apperrors"
	"github.com/ethetl/ethetl/internal/config"
	"github.com/ethetl/ethetl/internal/encode"
	"github.com/ethetl/ethetl/internal/storage"
)

// Write encodes chunk per format and puts it to op at basePath + the format's
// extension, yielding `{dataset}/{dataset}_{range_path}.{csv|parquet}`.
func Write(ctx context.Context, op storage.Operator, basePath string, chunk encode.Chunk, format config.OutputFormat) error {
	var (
		data []byte
		ext  string
		err  error
	)

	switch format {
	case config.FormatCSV:
		ext = "csv"
		data, err = encodeCSV(chunk)
	case config.FormatParquet:
		ext = "parquet"
		data, err = encodeParquet(chunk)
	default:
		return &apperrors.ConfigError{Field: "output_format", Reason: fmt.Sprintf("unsupported output format %q", format)}
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", basePath, err)
	}

	return op.Put(ctx, fmt.Sprintf("%s.%s", basePath, ext), data)
}
