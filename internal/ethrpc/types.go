// Package ethrpc is the typed wrapper over batched Ethereum JSON-RPC calls:
// eth_getBlockByNumber with full transactions, eth_getTransactionReceipt,
// trace_block, eth_blockNumber and eth_syncing.
package ethrpc

import "math/big"

// Block is one block with its transactions. Hash-like fields are rendered as
// hex strings with leading zeros trimmed, not as fixed-width byte arrays, since
// the Columnar Encoder consumes them as strings directly.
type Block struct {
	Number           uint64
	Hash             string
	ParentHash       string
	Nonce            string
	Sha3Uncles       string
	LogsBloom        string
	TransactionsRoot string
	StateRoot        string
	ReceiptsRoot     string
	Difficulty       string
	TotalDifficulty  string
	Size             uint64
	ExtraData        string
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	BaseFeePerGas    uint64
	Transactions     []Transaction
}

// Transaction is one transaction within a Block, carrying its block's hash,
// number and timestamp for the flat columnar output.
type Transaction struct {
	Hash                 string
	Nonce                string
	TransactionIndex     uint64
	From                 string
	To                   string
	Value                *big.Int
	Gas                  uint64
	GasPrice             uint64
	Input                string
	MaxFeePerGas         uint64
	MaxPriorityFeePerGas uint64
	TransactionType      uint64
	BlockHash            string
	BlockNumber          uint64
	BlockTimestamp       uint64
}

// MethodID returns tx.input[0..10] (the 4-byte selector, 0x-prefixed) when the
// input is at least that long, else the whole input.
func (t Transaction) MethodID() string {
	if len(t.Input) >= 10 {
		return t.Input[:10]
	}
	return t.Input
}

// Receipt is one transaction receipt with its logs.
type Receipt struct {
	TransactionHash   string
	TransactionIndex  uint64
	BlockHash         string
	BlockNumber       uint64
	CumulativeGasUsed uint64
	GasUsed           uint64
	ContractAddress   string
	Root              string
	Status            uint64
	EffectiveGasPrice uint64
	Logs              []Log
}

// Log is one receipt log; Topics has length in [0,4].
type Log struct {
	LogIndex         uint64
	TransactionHash  string
	TransactionIndex uint64
	BlockHash        string
	BlockNumber      uint64
	Address          string
	Data             string
	Topics           []string
}

// Trace mirrors one row of the optional traces dataset.
type Trace struct {
	BlockNumber      uint64
	TransactionHash  string
	TransactionIndex uint64
	From             string
	To               string
	Value            uint64
	Input            string
	Output           string
	TraceType        string
	CallType         string
	RewardType       string
	Gas              uint64
	GasUsed          uint64
	Subtraces        uint64
	TraceAddress     string
	Error            string
	Status           uint64
	TraceID          string
}

// SyncStatus is the result of eth_syncing: either not syncing, or a current/highest
// pair. Tip discovery in this implementation uses eth_blockNumber (see
// SPEC_FULL.md's Open Question resolution); SyncStatus remains available for
// callers that need to distinguish a syncing node.
type SyncStatus struct {
	Syncing bool
	Current uint64
	Highest uint64
}
