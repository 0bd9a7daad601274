package writer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/ethetl/ethetl/internal/encode"
)

// encodeParquet renders a Chunk as Parquet bytes using xitongsys/parquet-go's
// JSON writer: the schema is built dynamically from encode.Schema (this
// extractor has no static per-dataset Go structs, since the Columnar Encoder's
// builders already carry the schema), and each row is marshaled to a JSON
// object keyed by field name before being handed to the row-group writer.
// The writer sets Snappy compression and tags string columns with PLAIN
// encoding; integer columns use the library's default encoding, and the
// library's page and column statistics are not turned off.
func encodeParquet(chunk encode.Chunk) ([]byte, error) {
	jsonSchema, err := buildJSONSchema(chunk.Schema)
	if err != nil {
		return nil, err
	}

	sink := newMemFile()
	pw, err := writer.NewJSONWriter(jsonSchema, sink, 4)
	if err != nil {
		return nil, fmt.Errorf("parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	names := chunk.Schema.Names()
	for _, row := range chunk.Rows {
		rec := make(map[string]interface{}, len(names))
		for i, name := range names {
			rec[name] = row[i]
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		if err := pw.Write(string(line)); err != nil {
			return nil, fmt.Errorf("parquet write row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("parquet write stop: %w", err)
	}
	return sink.Bytes(), nil
}

// buildJSONSchema renders encode.Schema into the JSON schema string
// xitongsys/parquet-go's writer.NewJSONWriter expects: a root Tag plus one
// Field entry per column, each naming a physical Parquet type.
func buildJSONSchema(s encode.Schema) (string, error) {
	type fieldDef struct {
		Tag string `json:"Tag"`
	}
	type schemaDef struct {
		Tag    string     `json:"Tag"`
		Fields []fieldDef `json:"Fields"`
	}

	def := schemaDef{Tag: "name=parquet_go_root"}
	for _, f := range s.Fields {
		var physical string
		switch f.Type {
		case encode.TypeUint64:
			physical = "type=INT64"
		case encode.TypeTimestampSeconds:
			// parquet's TIMESTAMP logical type has no SECONDS unit, so a
			// seconds-since-epoch value is stored as a plain INT64 rather
			// than mislabeled as TIMESTAMP_MILLIS/MICROS.
			physical = "type=INT64"
		case encode.TypeString, encode.TypeDecimal:
			physical = "type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN"
		default:
			return "", fmt.Errorf("unknown physical type for field %q", f.Name)
		}
		def.Fields = append(def.Fields, fieldDef{Tag: fmt.Sprintf("name=%s, %s", sanitizeName(f.Name), physical)})
	}

	out, err := json.Marshal(def)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// sanitizeName mirrors what xitongsys/parquet-go's tag parser accepts as a
// column name: no commas, since the tag format is itself comma-delimited.
func sanitizeName(name string) string {
	return strings.ReplaceAll(name, ",", "_")
}
