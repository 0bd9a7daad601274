package encode

import (
	"strings"

	"github.com/ethetl/ethetl/internal/ethrpc"
)

// LogsSchema is the logs dataset's column layout. topics is rendered as a
// pipe-delimited hex list.
var LogsSchema = Schema{Fields: []Field{
	{"log_index", TypeUint64},
	{"transaction_hash", TypeString},
	{"transaction_index", TypeUint64},
	{"block_hash", TypeString},
	{"block_number", TypeUint64},
	{"contract_address", TypeString},
	{"data", TypeString},
	{"topics", TypeString},
}}

// LogsBuilder owns the row buffer for the logs dataset, derived
// from each Receipt's Logs.
type LogsBuilder struct {
	rows [][]interface{}
}

// Append adds one Log's row.
func (b *LogsBuilder) Append(l ethrpc.Log) {
	b.rows = append(b.rows, []interface{}{
		l.LogIndex,
		l.TransactionHash,
		l.TransactionIndex,
		l.BlockHash,
		l.BlockNumber,
		l.Address,
		l.Data,
		strings.Join(l.Topics, "|"),
	})
}

// Finalize returns the accumulated schema+rows.
func (b *LogsBuilder) Finalize() Chunk {
	return Chunk{Schema: LogsSchema, Rows: b.rows}
}
