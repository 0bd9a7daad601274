package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/ethetl/ethetl/internal/encode"
)

// encodeCSV renders a Chunk as CSV bytes: a header row from the schema's field
// names, default delimiter/quoting, one row per record.
func encodeCSV(chunk encode.Chunk) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(chunk.Schema.Names()); err != nil {
		return nil, err
	}
	record := make([]string, len(chunk.Schema.Fields))
	for _, row := range chunk.Rows {
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
