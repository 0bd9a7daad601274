package encode

import "github.com/ethetl/ethetl/internal/ethrpc"

// BlocksSchema is the blocks dataset's column layout.
var BlocksSchema = Schema{Fields: []Field{
	{"number", TypeUint64},
	{"hash", TypeString},
	{"parent_hash", TypeString},
	{"nonce", TypeString},
	{"sha3_uncles", TypeString},
	{"logs_bloom", TypeString},
	{"transactions_root", TypeString},
	{"state_root", TypeString},
	{"receipts_root", TypeString},
	{"difficulty", TypeString},
	{"total_difficulty", TypeString},
	{"size", TypeUint64},
	{"extra_data", TypeString},
	{"gas_limit", TypeUint64},
	{"gas_used", TypeUint64},
	{"timestamp", TypeTimestampSeconds},
	{"transaction_count", TypeUint64},
	{"base_fee_per_gas", TypeUint64},
}}

// BlocksBuilder owns the row buffer for the blocks dataset.
type BlocksBuilder struct {
	rows [][]interface{}
}

// Append adds one Block's row. transaction_count is len(b.Transactions), not a
// separately derived field.
func (b *BlocksBuilder) Append(blk ethrpc.Block) {
	b.rows = append(b.rows, []interface{}{
		blk.Number,
		blk.Hash,
		blk.ParentHash,
		blk.Nonce,
		blk.Sha3Uncles,
		blk.LogsBloom,
		blk.TransactionsRoot,
		blk.StateRoot,
		blk.ReceiptsRoot,
		blk.Difficulty,
		blk.TotalDifficulty,
		blk.Size,
		blk.ExtraData,
		blk.GasLimit,
		blk.GasUsed,
		blk.Timestamp,
		uint64(len(blk.Transactions)),
		blk.BaseFeePerGas,
	})
}

// Finalize returns the accumulated schema+rows, ready for the Dataset Writer.
func (b *BlocksBuilder) Finalize() Chunk {
	return Chunk{Schema: BlocksSchema, Rows: b.rows}
}
