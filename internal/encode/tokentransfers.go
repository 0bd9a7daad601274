package encode

import "github.com/ethetl/ethetl/internal/decode"

// TokenTransfersSchema is the token_transfers dataset's column layout.
var TokenTransfersSchema = Schema{Fields: []Field{
	{"token_address", TypeString},
	{"from_address", TypeString},
	{"to_address", TypeString},
	{"token_id", TypeString},
	{"value", TypeString},
	{"erc_standard", TypeString},
	{"transaction_hash", TypeString},
	{"log_index", TypeUint64},
	{"block_number", TypeUint64},
}}

// TokenTransfersBuilder owns the row buffer for the token_transfers dataset,
// fed by the Event Decoder.
type TokenTransfersBuilder struct {
	rows [][]interface{}
}

// Append adds one decoded TokenTransfer's row.
func (b *TokenTransfersBuilder) Append(t decode.TokenTransfer) {
	b.rows = append(b.rows, []interface{}{
		t.TokenAddress,
		t.From,
		t.To,
		t.TokenID,
		t.Value,
		t.ERC,
		t.TransactionHash,
		t.LogIndex,
		t.BlockNumber,
	})
}

// Finalize returns the accumulated schema+rows.
func (b *TokenTransfersBuilder) Finalize() Chunk {
	return Chunk{Schema: TokenTransfersSchema, Rows: b.rows}
}
