package encode

import "github.com/ethetl/ethetl/internal/ethrpc"

// TransactionsSchema is the transactions dataset's column layout.
var TransactionsSchema = Schema{Fields: []Field{
	{"hash", TypeString},
	{"nonce", TypeString},
	{"transaction_index", TypeUint64},
	{"from_address", TypeString},
	{"to_address", TypeString},
	{"value", TypeDecimal},
	{"gas", TypeUint64},
	{"gas_price", TypeUint64},
	{"method_id", TypeString},
	{"input", TypeString},
	{"max_fee_per_gas", TypeUint64},
	{"max_priority_fee_per_gas", TypeUint64},
	{"transaction_type", TypeUint64},
	{"block_hash", TypeString},
	{"block_number", TypeUint64},
	{"block_timestamp", TypeUint64},
}}

// TransactionsBuilder owns the row buffer for the transactions dataset.
type TransactionsBuilder struct {
	rows [][]interface{}
}

// Append adds one Transaction's row; method_id comes from
// ethrpc.Transaction.MethodID.
func (b *TransactionsBuilder) Append(tx ethrpc.Transaction) {
	b.rows = append(b.rows, []interface{}{
		tx.Hash,
		tx.Nonce,
		tx.TransactionIndex,
		tx.From,
		tx.To,
		tx.Value.String(),
		tx.Gas,
		tx.GasPrice,
		tx.MethodID(),
		tx.Input,
		tx.MaxFeePerGas,
		tx.MaxPriorityFeePerGas,
		tx.TransactionType,
		tx.BlockHash,
		tx.BlockNumber,
		tx.BlockTimestamp,
	})
}

// Finalize returns the accumulated schema+rows.
func (b *TransactionsBuilder) Finalize() Chunk {
	return Chunk{Schema: TransactionsSchema, Rows: b.rows}
}

// Hashes returns the transaction hashes in append order — used to build the
// _transactions_hash_{range} sidecar file.
func (b *TransactionsBuilder) Hashes() []string {
	out := make([]string, len(b.rows))
	for i, row := range b.rows {
		out[i] = row[0].(string)
	}
	return out
}
