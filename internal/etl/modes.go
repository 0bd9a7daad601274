package etl

import (
	"context"
	"path"
	"time"

	"github.com/ethetl/ethetl/internal/checkpoint"
	"github.com/ethetl/ethetl/internal/chunkrange"
	"github.com/ethetl/ethetl/internal/config"
	"github.com/ethetl/ethetl/internal/ethrpc"
	"github.com/ethetl/ethetl/internal/fetch"
	"github.com/ethetl/ethetl/internal/logger"
	"github.com/ethetl/ethetl/internal/pipeline"
	"github.com/ethetl/ethetl/internal/progress"
	"github.com/ethetl/ethetl/internal/retryutil"
	"github.com/ethetl/ethetl/internal/storage"
)

// Exporter bundles the long-lived collaborators both Mode Drivers share: the
// loaded config, the RPC client, the Storage Operator and the Progress Tracker.
// An immutable struct passed by reference; counters behind atomics, no
// singleton.
type Exporter struct {
	Cfg      *config.Config
	Client   *ethrpc.Client
	Storage  storage.Operator
	Progress *progress.Tracker
}

func (e *Exporter) newPipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Blocks:        &fetch.BlockFetcher{Client: e.Client, Web3BatchSize: e.Cfg.Web3BatchSize, Progress: e.Progress},
		Receipts:      &fetch.ReceiptFetcher{Client: e.Client, Web3BatchSize: e.Cfg.Web3BatchSize, Progress: e.Progress},
		Traces:        &fetch.TraceFetcher{Client: e.Client, Web3BatchSize: e.Cfg.Web3BatchSize, Progress: e.Progress},
		Storage:       e.Storage,
		OutputDir:     e.Cfg.OutputDir,
		OutputFormat:  e.Cfg.OutputFormat,
		IncludeTraces: e.Cfg.IncludeTraces,
		Progress:      e.Progress,
	}
}

func (e *Exporter) newController(checkpointFile string) *Controller {
	return &Controller{
		Runner:         e.newPipeline(),
		Storage:        e.Storage,
		CheckpointPath: path.Join(e.Cfg.OutputDir, checkpointFile),
		BatchSize:      e.Cfg.BatchSize,
		MaxWorker:      e.Cfg.MaxWorker,
	}
}

// resumeStart picks the configured start block, or just past the checkpoint if
// that is further along.
func resumeStart(cfgStart uint64, cp *checkpoint.Checkpoint) uint64 {
	if cp != nil && cp.End+1 > cfgStart {
		return cp.End + 1
	}
	return cfgStart
}

// RunBatch is BatchMode: extract [start_block, end_block] once,
// skipping the prefix an existing checkpoint already committed.
func (e *Exporter) RunBatch(ctx context.Context) error {
	cpPath := path.Join(e.Cfg.OutputDir, checkpoint.BatchFile)
	cp, err := checkpoint.Load(ctx, e.Storage, cpPath)
	if err != nil {
		return err
	}

	start := resumeStart(e.Cfg.StartBlock, cp)
	if cp != nil {
		logger.For(ctx).Infof("checkpoint found at %d_%d, resuming from %d", cp.Start, cp.End, start)
	}
	if start > e.Cfg.EndBlock {
		logger.For(ctx).Infof("range %d_%d already committed, nothing to do", e.Cfg.StartBlock, e.Cfg.EndBlock)
		return nil
	}

	e.Progress.AddAll(e.Cfg.EndBlock - start + 1)
	return e.newController(checkpoint.BatchFile).Run(ctx, chunkrange.Range{Start: start, End: e.Cfg.EndBlock})
}

// RunStream is StreamMode: at a fixed cadence, discover the node's
// tip via eth_blockNumber and extract the new suffix through the Batch
// Controller with the stream-specific checkpoint. Runs until ctx is cancelled;
// there is no backpressure beyond the cadence and the Worker Pool's bound.
func (e *Exporter) RunStream(ctx context.Context) error {
	cpPath := path.Join(e.Cfg.OutputDir, checkpoint.StreamFile)
	cp, err := checkpoint.Load(ctx, e.Storage, cpPath)
	if err != nil {
		return err
	}

	start := resumeStart(e.Cfg.StartBlock, cp)
	if cp != nil {
		logger.For(ctx).Infof("stream checkpoint found at %d_%d, resuming from %d", cp.Start, cp.End, start)
	}

	controller := e.newController(checkpoint.StreamFile)
	interval := time.Duration(e.Cfg.SyncingIntervalSecs) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		tip, err := retryutil.Do(ctx, "eth_blockNumber", retryutil.DefaultBackoff, nil, func(ctx context.Context) (uint64, error) {
			return e.Client.LatestBlockNumber(ctx)
		})
		if err != nil {
			return err
		}

		if start <= tip {
			e.Progress.AddAll(tip - start + 1)
			if err := controller.Run(ctx, chunkrange.Range{Start: start, End: tip}); err != nil {
				return err
			}
			start = tip + 1
		} else {
			logger.For(ctx).Debugf("caught up with tip %d, waiting %s", tip, interval)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
