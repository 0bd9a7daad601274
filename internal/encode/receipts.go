package encode

import "github.com/ethetl/ethetl/internal/ethrpc"

// ReceiptsSchema is the receipts dataset's column layout.
var ReceiptsSchema = Schema{Fields: []Field{
	{"transaction_hash", TypeString},
	{"transaction_index", TypeUint64},
	{"block_hash", TypeString},
	{"block_number", TypeUint64},
	{"cumulative_gas_used", TypeUint64},
	{"gas_used", TypeUint64},
	{"contract_address", TypeString},
	{"root", TypeString},
	{"status", TypeUint64},
	{"effective_gas_price", TypeUint64},
}}

// ReceiptsBuilder owns the row buffer for the receipts dataset.
type ReceiptsBuilder struct {
	rows [][]interface{}
}

// Append adds one Receipt's row.
func (b *ReceiptsBuilder) Append(r ethrpc.Receipt) {
	b.rows = append(b.rows, []interface{}{
		r.TransactionHash,
		r.TransactionIndex,
		r.BlockHash,
		r.BlockNumber,
		r.CumulativeGasUsed,
		r.GasUsed,
		r.ContractAddress,
		r.Root,
		r.Status,
		r.EffectiveGasPrice,
	})
}

// Finalize returns the accumulated schema+rows.
func (b *ReceiptsBuilder) Finalize() Chunk {
	return Chunk{Schema: ReceiptsSchema, Rows: b.rows}
}
