// Package encode implements the Columnar Encoder: one builder per
// dataset, each owning a row buffer that a single Append call fills with one
// complete row from a typed input, and a Finalize method that hands the
// accumulated rows to the Dataset Writer as a Chunk (Schema plus Rows), which
// avoids the brittle bookkeeping of parallel mutable vectors spread across
// call sites.
//
// PhysicalType names the column types the dataset schemas use (u64, str,
// decimal, ts-seconds) and doubles as the source of the xitongsys/parquet-go
// JSON-schema tag the Dataset Writer's Parquet path builds from it.
package encode

// PhysicalType enumerates the column types the dataset schemas use.
type PhysicalType int

const (
	TypeString PhysicalType = iota
	TypeUint64
	TypeDecimal // wide integer rendered as a base-10 string; no precision or scale is carried, and the Parquet writer stores it as a UTF8 string, not a DECIMAL column
	TypeTimestampSeconds
)

// Field is one column's name and physical type.
type Field struct {
	Name string
	Type PhysicalType
}

// Schema is the stable, ordered column list for one dataset; column names and
// physical types never change between runs.
type Schema struct {
	Fields []Field
}

// Names returns the field names in schema order, used as the CSV header row and
// as the JSON object key order fed to the Parquet writer.
func (s Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Chunk is one dataset's fully-built output for one Chunk Pipeline run: a fixed
// Schema plus row-major Rows, each inner slice holding one value per field in
// Schema order. Builders append each row whole in Append, so callers never
// observe partially-built rows.
type Chunk struct {
	Schema Schema
	Rows   [][]interface{}
}
