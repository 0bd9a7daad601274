package encode

import "github.com/ethetl/ethetl/internal/ethrpc"

// TracesSchema is the optional traces dataset's column layout.
var TracesSchema = Schema{Fields: []Field{
	{"block_number", TypeUint64},
	{"transaction_hash", TypeString},
	{"transaction_index", TypeUint64},
	{"from_address", TypeString},
	{"to_address", TypeString},
	{"value", TypeUint64},
	{"input", TypeString},
	{"output", TypeString},
	{"trace_type", TypeString},
	{"call_type", TypeString},
	{"reward_type", TypeString},
	{"gas", TypeUint64},
	{"gas_used", TypeUint64},
	{"subtraces", TypeUint64},
	{"trace_address", TypeString},
	{"error", TypeString},
	{"status", TypeUint64},
	{"trace_id", TypeString},
}}

// TracesBuilder owns the row buffer for the traces dataset.
type TracesBuilder struct {
	rows [][]interface{}
}

// Append adds one Trace's row.
func (b *TracesBuilder) Append(t ethrpc.Trace) {
	b.rows = append(b.rows, []interface{}{
		t.BlockNumber,
		t.TransactionHash,
		t.TransactionIndex,
		t.From,
		t.To,
		t.Value,
		t.Input,
		t.Output,
		t.TraceType,
		t.CallType,
		t.RewardType,
		t.Gas,
		t.GasUsed,
		t.Subtraces,
		t.TraceAddress,
		t.Error,
		t.Status,
		t.TraceID,
	})
}

// Finalize returns the accumulated schema+rows.
func (b *TracesBuilder) Finalize() Chunk {
	return Chunk{Schema: TracesSchema, Rows: b.rows}
}
