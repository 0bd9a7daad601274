package ethrpc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// The raw* types below mirror the JSON-RPC wire shape returned by
// eth_getBlockByNumber / eth_getTransactionReceipt / trace_block. They exist
// because the output schemas need a wider, flatter field set (total_difficulty,
// block_timestamp on transactions, etc.) than go-ethereum's core types.Block /
// types.Receipt expose, and because hash-like fields must keep their
// leading-zero-trimmed string form rather than being parsed into fixed
// byte arrays. Trimming applies only to fixed-width hash/address fields;
// variable-length payloads (input, data, extra_data, trace input/output) pass
// through untouched, since stripping a leading zero byte would corrupt their
// ABI encoding.

type rawBlock struct {
	Number           hexutil.Uint64   `json:"number"`
	Hash             string           `json:"hash"`
	ParentHash       string           `json:"parentHash"`
	Nonce            string           `json:"nonce"`
	Sha3Uncles       string           `json:"sha3Uncles"`
	LogsBloom        string           `json:"logsBloom"`
	TransactionsRoot string           `json:"transactionsRoot"`
	StateRoot        string           `json:"stateRoot"`
	ReceiptsRoot     string           `json:"receiptsRoot"`
	Difficulty       string           `json:"difficulty"`
	TotalDifficulty  string           `json:"totalDifficulty"`
	Size             hexutil.Uint64   `json:"size"`
	ExtraData        string           `json:"extraData"`
	GasLimit         hexutil.Uint64   `json:"gasLimit"`
	GasUsed          hexutil.Uint64   `json:"gasUsed"`
	Timestamp        hexutil.Uint64   `json:"timestamp"`
	BaseFeePerGas    *hexutil.Big     `json:"baseFeePerGas"`
	Transactions     []rawTransaction `json:"transactions"`
}

func (b *rawBlock) toBlock() Block {
	txs := make([]Transaction, len(b.Transactions))
	for i, t := range b.Transactions {
		txs[i] = t.toTransaction(uint64(b.Number), trimHex(b.Hash), uint64(b.Timestamp))
	}
	var baseFee uint64
	if b.BaseFeePerGas != nil {
		baseFee = (*hexutil.Big)(b.BaseFeePerGas).ToInt().Uint64()
	}
	return Block{
		Number:           uint64(b.Number),
		Hash:             trimHex(b.Hash),
		ParentHash:       trimHex(b.ParentHash),
		Nonce:            trimHex(b.Nonce),
		Sha3Uncles:       trimHex(b.Sha3Uncles),
		LogsBloom:        trimHex(b.LogsBloom),
		TransactionsRoot: trimHex(b.TransactionsRoot),
		StateRoot:        trimHex(b.StateRoot),
		ReceiptsRoot:     trimHex(b.ReceiptsRoot),
		Difficulty:       trimHex(b.Difficulty),
		TotalDifficulty:  trimHex(b.TotalDifficulty),
		Size:             uint64(b.Size),
		ExtraData:        b.ExtraData,
		GasLimit:         uint64(b.GasLimit),
		GasUsed:          uint64(b.GasUsed),
		Timestamp:        uint64(b.Timestamp),
		BaseFeePerGas:    baseFee,
		Transactions:     txs,
	}
}

type rawTransaction struct {
	Hash                 string         `json:"hash"`
	Nonce                string         `json:"nonce"`
	TransactionIndex     hexutil.Uint64 `json:"transactionIndex"`
	From                 string         `json:"from"`
	To                   *string        `json:"to"`
	Value                *hexutil.Big   `json:"value"`
	Gas                  hexutil.Uint64 `json:"gas"`
	GasPrice             *hexutil.Big   `json:"gasPrice"`
	Input                string         `json:"input"`
	MaxFeePerGas         *hexutil.Big   `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big   `json:"maxPriorityFeePerGas"`
	Type                 string         `json:"type"`
}

func (t *rawTransaction) toTransaction(blockNumber uint64, blockHash string, blockTimestamp uint64) Transaction {
	to := ""
	if t.To != nil {
		to = trimHex(*t.To)
	}
	bigOrZero := func(v *hexutil.Big) uint64 {
		if v == nil {
			return 0
		}
		return (*hexutil.Big)(v).ToInt().Uint64()
	}
	txType, _ := hexutil.DecodeUint64(orZeroHex(t.Type))
	return Transaction{
		Hash:                 trimHex(t.Hash),
		Nonce:                trimHex(t.Nonce),
		TransactionIndex:     uint64(t.TransactionIndex),
		From:                 trimHex(t.From),
		To:                   to,
		Value:                valueOrZero(t.Value),
		Gas:                  uint64(t.Gas),
		GasPrice:             bigOrZero(t.GasPrice),
		Input:                t.Input,
		MaxFeePerGas:         bigOrZero(t.MaxFeePerGas),
		MaxPriorityFeePerGas: bigOrZero(t.MaxPriorityFeePerGas),
		TransactionType:      txType,
		BlockHash:            blockHash,
		BlockNumber:          blockNumber,
		BlockTimestamp:       blockTimestamp,
	}
}

func orZeroHex(s string) string {
	if s == "" {
		return "0x0"
	}
	return s
}

type rawReceipt struct {
	TransactionHash   string          `json:"transactionHash"`
	TransactionIndex  hexutil.Uint64  `json:"transactionIndex"`
	BlockHash         string          `json:"blockHash"`
	BlockNumber       hexutil.Uint64  `json:"blockNumber"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	ContractAddress   *string         `json:"contractAddress"`
	Root              string          `json:"root"`
	Status            *hexutil.Uint64 `json:"status"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
	Logs              []rawLog        `json:"logs"`
}

func (r *rawReceipt) toReceipt() Receipt {
	contractAddress := ""
	if r.ContractAddress != nil {
		contractAddress = trimHex(*r.ContractAddress)
	}
	var status uint64
	if r.Status != nil {
		status = uint64(*r.Status)
	}
	var effGasPrice uint64
	if r.EffectiveGasPrice != nil {
		effGasPrice = (*hexutil.Big)(r.EffectiveGasPrice).ToInt().Uint64()
	}
	logs := make([]Log, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = l.toLog()
	}
	return Receipt{
		TransactionHash:   trimHex(r.TransactionHash),
		TransactionIndex:  uint64(r.TransactionIndex),
		BlockHash:         trimHex(r.BlockHash),
		BlockNumber:       uint64(r.BlockNumber),
		CumulativeGasUsed: uint64(r.CumulativeGasUsed),
		GasUsed:           uint64(r.GasUsed),
		ContractAddress:   contractAddress,
		Root:              trimHex(r.Root),
		Status:            status,
		EffectiveGasPrice: effGasPrice,
		Logs:              logs,
	}
}

type rawLog struct {
	LogIndex         hexutil.Uint64 `json:"logIndex"`
	TransactionHash  string         `json:"transactionHash"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
	BlockHash        string         `json:"blockHash"`
	BlockNumber      hexutil.Uint64 `json:"blockNumber"`
	Address          string         `json:"address"`
	Data             string         `json:"data"`
	Topics           []string       `json:"topics"`
}

func (l *rawLog) toLog() Log {
	topics := make([]string, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = trimHex(t)
	}
	return Log{
		LogIndex:         uint64(l.LogIndex),
		TransactionHash:  trimHex(l.TransactionHash),
		TransactionIndex: uint64(l.TransactionIndex),
		BlockHash:        trimHex(l.BlockHash),
		BlockNumber:      uint64(l.BlockNumber),
		Address:          trimHex(l.Address),
		Data:             l.Data,
		Topics:           topics,
	}
}

type rawTraceAction struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Value    string `json:"value"`
	Gas      string `json:"gas"`
	Input    string `json:"input"`
	CallType string `json:"callType"`
}

type rawTraceResult struct {
	GasUsed string `json:"gasUsed"`
	Output  string `json:"output"`
}

type rawTrace struct {
	Action              rawTraceAction  `json:"action"`
	Result              *rawTraceResult `json:"result"`
	Error               string          `json:"error"`
	Subtraces           int             `json:"subtraces"`
	TraceAddress        []int           `json:"traceAddress"`
	Type                string          `json:"type"`
	TransactionHash     string          `json:"transactionHash"`
	TransactionPosition int             `json:"transactionPosition"`
	BlockNumber         hexutil.Uint64  `json:"blockNumber"`
}

func (t *rawTrace) toTrace(blockNumber uint64) Trace {
	output, gasUsed := "", uint64(0)
	if t.Result != nil {
		output = t.Result.Output
		gasUsed, _ = hexutil.DecodeUint64(orZeroHex(t.Result.GasUsed))
	}
	value, _ := hexutil.DecodeUint64(orZeroHex(t.Action.Value))
	gas, _ := hexutil.DecodeUint64(orZeroHex(t.Action.Gas))
	status := uint64(1)
	if t.Error != "" {
		status = 0
	}
	return Trace{
		BlockNumber:      blockNumber,
		TransactionHash:  trimHex(t.TransactionHash),
		TransactionIndex: uint64(t.TransactionPosition),
		From:             trimHex(t.Action.From),
		To:               trimHex(t.Action.To),
		Value:            value,
		Input:            t.Action.Input,
		Output:           output,
		TraceType:        t.Type,
		CallType:         t.Action.CallType,
		RewardType:       "",
		Gas:              gas,
		GasUsed:          gasUsed,
		Subtraces:        uint64(t.Subtraces),
		TraceAddress:     traceAddressString(t.TraceAddress),
		Error:            t.Error,
		Status:           status,
		TraceID:          trimHex(t.TransactionHash),
	}
}

func traceAddressString(addr []int) string {
	if len(addr) == 0 {
		return ""
	}
	out := make([]byte, 0, len(addr)*2)
	for i, a := range addr {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, []byte(itoa(a))...)
	}
	return string(out)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func valueOrZero(v *hexutil.Big) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v.ToInt()
}
