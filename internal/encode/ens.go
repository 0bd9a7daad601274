package encode

import "github.com/ethetl/ethetl/internal/decode"

// EnsSchema is the ens dataset's column layout. cost is a wei amount rendered
// as a decimal string.
var EnsSchema = Schema{Fields: []Field{
	{"name", TypeString},
	{"cost", TypeDecimal},
	{"expires", TypeTimestampSeconds},
	{"owner", TypeString},
	{"transaction_hash", TypeString},
	{"block_number", TypeUint64},
}}

// EnsBuilder owns the row buffer for the ens dataset, fed by the
// Event Decoder's NameRegistered case.
type EnsBuilder struct {
	rows [][]interface{}
}

// Append adds one decoded EnsRegistration's row.
func (b *EnsBuilder) Append(e decode.EnsRegistration) {
	b.rows = append(b.rows, []interface{}{
		e.Name,
		e.Cost.String(),
		e.Expires,
		e.Owner,
		e.TransactionHash,
		e.BlockNumber,
	})
}

// Finalize returns the accumulated schema+rows.
func (b *EnsBuilder) Finalize() Chunk {
	return Chunk{Schema: EnsSchema, Rows: b.rows}
}
