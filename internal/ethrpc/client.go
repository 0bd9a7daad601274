package ethrpc

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/ethetl/ethetl/internal/apperrors"
)

// Client wraps a raw go-ethereum *rpc.Client. It intentionally does not use
// ethclient.Client for block/receipt fetching: ethclient issues one request per
// call, whereas the fetch hot path needs true JSON-RPC batching re-chunked by
// web3_batch_size, which only the lower-level rpc.Client's BatchCallContext
// exposes.
type Client struct {
	rpc *gethrpc.Client
}

// NewClient dials providerURI.
func NewClient(ctx context.Context, providerURI string) (*Client, error) {
	c, err := gethrpc.DialContext(ctx, providerURI)
	if err != nil {
		return nil, &apperrors.TransientError{Op: "dial", Err: err}
	}
	return &Client{rpc: c}, nil
}

func (c *Client) Close() { c.rpc.Close() }

// LatestBlockNumber issues eth_blockNumber.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	var result hexutil.Uint64
	if err := c.rpc.CallContext(ctx, &result, "eth_blockNumber"); err != nil {
		return 0, &apperrors.TransientError{Op: "eth_blockNumber", Err: err}
	}
	return uint64(result), nil
}

// SyncingState issues eth_syncing, for callers that need to distinguish a
// still-syncing node; tip discovery itself uses LatestBlockNumber.
func (c *Client) SyncingState(ctx context.Context) (SyncStatus, error) {
	var raw interface{}
	if err := c.rpc.CallContext(ctx, &raw, "eth_syncing"); err != nil {
		return SyncStatus{}, &apperrors.TransientError{Op: "eth_syncing", Err: err}
	}
	status, ok := raw.(map[string]interface{})
	if !ok {
		return SyncStatus{Syncing: false}, nil
	}
	toUint := func(v interface{}) uint64 {
		s, _ := v.(string)
		n, _ := hexutil.DecodeUint64(s)
		return n
	}
	return SyncStatus{
		Syncing: true,
		Current: toUint(status["currentBlock"]),
		Highest: toUint(status["highestBlock"]),
	}, nil
}

// GetBlocksWithTxs performs one batched eth_getBlockByNumber(n, true) per element
// of nums, re-chunked internally by web3BatchSize, preserving input order. Fails
// with a MissingBlock contract error if any response is null.
func (c *Client) GetBlocksWithTxs(ctx context.Context, nums []uint64, web3BatchSize uint64) ([]Block, error) {
	out := make([]Block, 0, len(nums))
	for _, chunk := range chunkUint64(nums, web3BatchSize) {
		raws := make([]*rawBlock, len(chunk))
		elems := make([]gethrpc.BatchElem, len(chunk))
		for i, n := range chunk {
			elems[i] = gethrpc.BatchElem{
				Method: "eth_getBlockByNumber",
				Args:   []interface{}{hexutil.EncodeUint64(n), true},
				Result: &raws[i],
			}
		}
		if err := c.rpc.BatchCallContext(ctx, elems); err != nil {
			return nil, &apperrors.TransientError{Op: "eth_getBlockByNumber", Err: err}
		}
		for i, e := range elems {
			if e.Error != nil {
				return nil, &apperrors.TransientError{Op: "eth_getBlockByNumber", Err: e.Error}
			}
			if raws[i] == nil {
				return nil, apperrors.MissingBlock(chunk[i])
			}
			out = append(out, raws[i].toBlock())
		}
	}
	return out, nil
}

// GetReceipts performs one batched eth_getTransactionReceipt per hash, re-chunked
// by web3BatchSize, preserving input order. Fails with a MissingReceipt contract
// error if any response is null.
func (c *Client) GetReceipts(ctx context.Context, hashes []string, web3BatchSize uint64) ([]Receipt, error) {
	out := make([]Receipt, 0, len(hashes))
	for _, chunk := range chunkStrings(hashes, web3BatchSize) {
		raws := make([]*rawReceipt, len(chunk))
		elems := make([]gethrpc.BatchElem, len(chunk))
		for i, h := range chunk {
			elems[i] = gethrpc.BatchElem{
				Method: "eth_getTransactionReceipt",
				Args:   []interface{}{h},
				Result: &raws[i],
			}
		}
		if err := c.rpc.BatchCallContext(ctx, elems); err != nil {
			return nil, &apperrors.TransientError{Op: "eth_getTransactionReceipt", Err: err}
		}
		for i, e := range elems {
			if e.Error != nil {
				return nil, &apperrors.TransientError{Op: "eth_getTransactionReceipt", Err: e.Error}
			}
			if raws[i] == nil {
				return nil, apperrors.MissingReceipt(chunk[i])
			}
			out = append(out, raws[i].toReceipt())
		}
	}
	return out, nil
}

// TraceBlock performs trace_block(n) for each block number, re-chunked by
// web3BatchSize. Callers that don't export traces never call this.
func (c *Client) TraceBlock(ctx context.Context, nums []uint64, web3BatchSize uint64) ([]Trace, error) {
	out := make([]Trace, 0, len(nums))
	for _, chunk := range chunkUint64(nums, web3BatchSize) {
		raws := make([][]rawTrace, len(chunk))
		elems := make([]gethrpc.BatchElem, len(chunk))
		for i, n := range chunk {
			elems[i] = gethrpc.BatchElem{
				Method: "trace_block",
				Args:   []interface{}{hexutil.EncodeUint64(n)},
				Result: &raws[i],
			}
		}
		if err := c.rpc.BatchCallContext(ctx, elems); err != nil {
			return nil, &apperrors.TransientError{Op: "trace_block", Err: err}
		}
		for i, e := range elems {
			if e.Error != nil {
				return nil, &apperrors.TransientError{Op: "trace_block", Err: e.Error}
			}
			for _, rt := range raws[i] {
				out = append(out, rt.toTrace(chunk[i]))
			}
		}
	}
	return out, nil
}

func chunkUint64(xs []uint64, size uint64) [][]uint64 {
	if size == 0 {
		size = uint64(len(xs))
		if size == 0 {
			size = 1
		}
	}
	var chunks [][]uint64
	for i := 0; i < len(xs); i += int(size) {
		end := i + int(size)
		if end > len(xs) {
			end = len(xs)
		}
		chunks = append(chunks, xs[i:end])
	}
	return chunks
}

func chunkStrings(xs []string, size uint64) [][]string {
	if size == 0 {
		size = uint64(len(xs))
		if size == 0 {
			size = 1
		}
	}
	var chunks [][]string
	for i := 0; i < len(xs); i += int(size) {
		end := i + int(size)
		if end > len(xs) {
			end = len(xs)
		}
		chunks = append(chunks, xs[i:end])
	}
	return chunks
}

// trimHex lower-cases a hex string and trims leading zeros after the 0x prefix,
// preserving at least one digit. Downstream golden files expect this trimmed
// rendering for every hash and address column.
func trimHex(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	if !strings.HasPrefix(s, "0x") {
		return s
	}
	body := strings.TrimLeft(s[2:], "0")
	if body == "" {
		body = "0"
	}
	return "0x" + body
}
