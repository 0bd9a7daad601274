// Package fetch implements the Fetchers: thin wrappers around
// ethrpc.Client operations that retry transient failures indefinitely with
// exponential backoff (via internal/retryutil) and increment the shared
// Progress Tracker on every successful result. Contract errors (missing block,
// missing receipt) are not retried — retryutil.Do lets them escape immediately.
package fetch

import (
	"context"
	"time"

	"github.com/ethetl/ethetl/internal/ethrpc"
	"github.com/ethetl/ethetl/internal/logger"
	"github.com/ethetl/ethetl/internal/progress"
	"github.com/ethetl/ethetl/internal/retryutil"
)

// BlockFetcher wraps ethrpc.Client.GetBlocksWithTxs with retry and progress
// accounting.
type BlockFetcher struct {
	Client        *ethrpc.Client
	Web3BatchSize uint64
	Progress      *progress.Tracker
}

// Fetch retries indefinitely on transient RPC errors (backoff: base 500ms,
// factor 2, cap 60s) and increments blocks/txs/max_block_number on success.
func (f *BlockFetcher) Fetch(ctx context.Context, nums []uint64) ([]ethrpc.Block, error) {
	blocks, err := retryutil.Do(ctx, "fetch_blocks", retryutil.DefaultBackoff, f.onError, func(ctx context.Context) ([]ethrpc.Block, error) {
		return f.Client.GetBlocksWithTxs(ctx, nums, f.Web3BatchSize)
	})
	if err != nil {
		return nil, err
	}

	txs := uint64(0)
	for _, b := range blocks {
		txs += uint64(len(b.Transactions))
		f.Progress.ObserveMaxBlockNumber(b.Number)
	}
	f.Progress.AddBlocks(uint64(len(blocks)))
	f.Progress.AddTxs(txs)
	return blocks, nil
}

func (f *BlockFetcher) onError(attempt int, err error, sleep time.Duration) {
	logger.For(context.Background()).WithError(err).Warnf("fetch_blocks: transient error, retrying in %s (attempt %d)", sleep, attempt+1)
}

// ReceiptFetcher wraps ethrpc.Client.GetReceipts with retry and progress
// accounting. Receipt fetch chunking is parameterized by web3_batch_size
// uniformly with blocks and traces.
type ReceiptFetcher struct {
	Client        *ethrpc.Client
	Web3BatchSize uint64
	Progress      *progress.Tracker
}

// Fetch retries indefinitely on transient RPC errors and increments
// receipts/logs on success.
func (f *ReceiptFetcher) Fetch(ctx context.Context, hashes []string) ([]ethrpc.Receipt, error) {
	receipts, err := retryutil.Do(ctx, "fetch_receipts", retryutil.DefaultBackoff, f.onError, func(ctx context.Context) ([]ethrpc.Receipt, error) {
		return f.Client.GetReceipts(ctx, hashes, f.Web3BatchSize)
	})
	if err != nil {
		return nil, err
	}

	logs := uint64(0)
	for _, r := range receipts {
		logs += uint64(len(r.Logs))
	}
	f.Progress.AddReceipts(uint64(len(receipts)))
	f.Progress.AddLogs(logs)
	return receipts, nil
}

func (f *ReceiptFetcher) onError(attempt int, err error, sleep time.Duration) {
	logger.For(context.Background()).WithError(err).Warnf("fetch_receipts: transient error, retrying in %s (attempt %d)", sleep, attempt+1)
}

// TraceFetcher wraps ethrpc.Client.TraceBlock with retry and progress
// accounting.
type TraceFetcher struct {
	Client        *ethrpc.Client
	Web3BatchSize uint64
	Progress      *progress.Tracker
}

// Fetch retries indefinitely on transient RPC errors and increments traces on
// success.
func (f *TraceFetcher) Fetch(ctx context.Context, nums []uint64) ([]ethrpc.Trace, error) {
	traces, err := retryutil.Do(ctx, "fetch_traces", retryutil.DefaultBackoff, f.onError, func(ctx context.Context) ([]ethrpc.Trace, error) {
		return f.Client.TraceBlock(ctx, nums, f.Web3BatchSize)
	})
	if err != nil {
		return nil, err
	}
	f.Progress.AddTraces(uint64(len(traces)))
	return traces, nil
}

func (f *TraceFetcher) onError(attempt int, err error, sleep time.Duration) {
	logger.For(context.Background()).WithError(err).Warnf("fetch_traces: transient error, retrying in %s (attempt %d)", sleep, attempt+1)
}
