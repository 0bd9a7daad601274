// Package pipeline implements the Chunk Pipeline: for one Chunk,
// drives the Fetchers, the Event Decoder, the Columnar Encoders and the Dataset
// Writer in strict sequence, producing one per-dataset output file per Chunk.
// Any step's error aborts the Pipeline for that chunk only and bubbles to the Worker Pool; the Batch Controller does
// not advance the checkpoint for a failed chunk.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/ethetl/ethetl/internal/chunkrange"
	"github.com/ethetl/ethetl/internal/config"
	"github.com/ethetl/ethetl/internal/decode"
	"github.com/ethetl/ethetl/internal/encode"
	"github.com/ethetl/ethetl/internal/ethrpc"
	"github.com/ethetl/ethetl/internal/logger"
	"github.com/ethetl/ethetl/internal/progress"
	"github.com/ethetl/ethetl/internal/storage"
	"github.com/ethetl/ethetl/internal/writer"
)

// BlockSource, ReceiptSource and TraceSource are the fetcher surfaces the
// Pipeline consumes; fetch.BlockFetcher and friends satisfy them.
type BlockSource interface {
	Fetch(ctx context.Context, nums []uint64) ([]ethrpc.Block, error)
}

type ReceiptSource interface {
	Fetch(ctx context.Context, hashes []string) ([]ethrpc.Receipt, error)
}

type TraceSource interface {
	Fetch(ctx context.Context, nums []uint64) ([]ethrpc.Trace, error)
}

// Pipeline bundles everything one Chunk execution needs: the Fetchers (which
// already carry their own retry discipline), the Storage Operator, output
// configuration, and the shared Progress Tracker.
type Pipeline struct {
	Blocks   BlockSource
	Receipts ReceiptSource
	Traces   TraceSource

	Storage       storage.Operator
	OutputDir     string
	OutputFormat  config.OutputFormat
	IncludeTraces bool
	Progress      *progress.Tracker
}

// Run executes the ten pipeline steps for one chunk, in order. It does not
// retry at the pipeline level — each Fetcher already retries its own transient
// errors indefinitely; what reaches Run as an error is either a contract error
// (node not caught up) or a hard storage failure, both of which abort the
// chunk.
func (p *Pipeline) Run(ctx context.Context, chunk chunkrange.Chunk) error {
	rangePath := chunk.RangePath()
	log := logger.For(ctx).WithField("range", rangePath)

	// Step 1: fetch blocks with transactions.
	blocks, err := p.Blocks.Fetch(ctx, chunk.Numbers)
	if err != nil {
		return fmt.Errorf("fetch blocks %s: %w", rangePath, err)
	}

	// Step 2: encode + write blocks.
	blocksBuilder := &encode.BlocksBuilder{}
	txBuilder := &encode.TransactionsBuilder{}
	for _, b := range blocks {
		blocksBuilder.Append(b)
		for _, t := range b.Transactions {
			txBuilder.Append(t)
		}
	}
	if err := p.write(ctx, "blocks", rangePath, blocksBuilder.Finalize()); err != nil {
		return err
	}

	// Step 3: encode + write transactions.
	if err := p.write(ctx, "transactions", rangePath, txBuilder.Finalize()); err != nil {
		return err
	}

	// Step 4: write the tx-hash sidecar.
	hashFilePath := fmt.Sprintf("%s/transactions/_transactions_hash_%s.txt", p.OutputDir, rangePath)
	if err := p.Storage.Put(ctx, hashFilePath, []byte(strings.Join(txBuilder.Hashes(), "\n"))); err != nil {
		return fmt.Errorf("write tx hash sidecar %s: %w", rangePath, err)
	}

	// Step 5: read the sidecar back and fetch receipts.
	sidecar, err := p.Storage.Get(ctx, hashFilePath)
	if err != nil {
		return fmt.Errorf("read tx hash sidecar %s: %w", rangePath, err)
	}
	readHashes := splitNonEmptyLines(string(sidecar))

	receipts, err := p.Receipts.Fetch(ctx, readHashes)
	if err != nil {
		return fmt.Errorf("fetch receipts %s: %w", rangePath, err)
	}

	// Step 6: encode + write receipts.
	receiptsBuilder := &encode.ReceiptsBuilder{}
	logsBuilder := &encode.LogsBuilder{}
	var allLogs []ethrpc.Log
	for _, r := range receipts {
		receiptsBuilder.Append(r)
		for _, l := range r.Logs {
			logsBuilder.Append(l)
			allLogs = append(allLogs, l)
		}
	}
	if err := p.write(ctx, "receipts", rangePath, receiptsBuilder.Finalize()); err != nil {
		return err
	}

	// Step 7: derive + write logs.
	if err := p.write(ctx, "logs", rangePath, logsBuilder.Finalize()); err != nil {
		return err
	}

	// Step 8/9: derive token transfers and ENS registrations from the same log
	// set via the Event Decoder, then write both datasets.
	transfersBuilder := &encode.TokenTransfersBuilder{}
	ensBuilder := &encode.EnsBuilder{}
	var decodeSkipped uint64
	for _, l := range allLogs {
		result := decode.Decode(l)
		if result.Skipped {
			decodeSkipped++
			continue
		}
		for _, t := range result.Transfers {
			transfersBuilder.Append(t)
		}
		if result.Ens != nil {
			ensBuilder.Append(*result.Ens)
		}
	}
	p.Progress.AddDecodeSkipped(decodeSkipped)

	tokenTransfers := transfersBuilder.Finalize()
	ensChunk := ensBuilder.Finalize()
	p.Progress.AddTokenTransfers(uint64(len(tokenTransfers.Rows)))
	p.Progress.AddEns(uint64(len(ensChunk.Rows)))

	// Both datasets derive from the same decoded log set and are independent of
	// each other, so their writes fan out concurrently.
	wp := pool.New().WithErrors().WithContext(ctx)
	wp.Go(func(ctx context.Context) error {
		return p.write(ctx, "token_transfers", rangePath, tokenTransfers)
	})
	wp.Go(func(ctx context.Context) error {
		return p.write(ctx, "ens", rangePath, ensChunk)
	})
	if err := wp.Wait(); err != nil {
		return err
	}

	// Step 10 (optional): fetch + write traces.
	if p.IncludeTraces {
		traces, err := p.Traces.Fetch(ctx, chunk.Numbers)
		if err != nil {
			return fmt.Errorf("fetch traces %s: %w", rangePath, err)
		}
		tracesBuilder := &encode.TracesBuilder{}
		for _, t := range traces {
			tracesBuilder.Append(t)
		}
		if err := p.write(ctx, "traces", rangePath, tracesBuilder.Finalize()); err != nil {
			return err
		}
	}

	log.Debug("chunk pipeline complete")
	return nil
}

func (p *Pipeline) write(ctx context.Context, dataset, rangePath string, chunk encode.Chunk) error {
	basePath := fmt.Sprintf("%s/%s/%s_%s", p.OutputDir, dataset, dataset, rangePath)
	if err := writer.Write(ctx, p.Storage, basePath, chunk, p.OutputFormat); err != nil {
		return fmt.Errorf("write %s %s: %w", dataset, rangePath, err)
	}
	return nil
}

func splitNonEmptyLines(s string) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}
