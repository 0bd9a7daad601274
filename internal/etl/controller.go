// Package etl ties the extractor together: the Batch Controller
// that splits a range into super-chunks and commits the checkpoint after each,
// and the two Mode Drivers that decide which range to extract.
package etl

import (
	"context"
	"fmt"

	"github.com/ethetl/ethetl/internal/checkpoint"
	"github.com/ethetl/ethetl/internal/chunkrange"
	"github.com/ethetl/ethetl/internal/logger"
	"github.com/ethetl/ethetl/internal/pool"
	"github.com/ethetl/ethetl/internal/storage"
)

// Controller is the Batch Controller: it exclusively owns the checkpoint object
// and serializes the
// commit point across super-chunks.
type Controller struct {
	Runner         pool.Runner
	Storage        storage.Operator
	CheckpointPath string
	BatchSize      uint64
	MaxWorker      int
}

// Run splits [r.Start, r.End] into super-chunks of batch_size × max_worker
// blocks, runs one Worker Pool invocation per super-chunk in ascending order,
// and writes the checkpoint after each pool returns success. A pool
// error stops the controller without advancing the checkpoint, so a restart
// re-attempts the same super-chunk and overwrites its partial output.
func (c *Controller) Run(ctx context.Context, r chunkrange.Range) error {
	superSize := c.BatchSize * uint64(c.MaxWorker)

	for _, super := range chunkrange.Split(r, superSize) {
		subRange := chunkrange.Range{Start: super.First(), End: super.Last()}
		subChunks := chunkrange.Split(subRange, c.BatchSize)

		if err := pool.Run(ctx, c.Runner, subChunks, c.MaxWorker); err != nil {
			return fmt.Errorf("super-chunk %s: %w", super.RangePath(), err)
		}

		cp := checkpoint.Checkpoint{Start: super.First(), End: super.Last()}
		if err := cp.Save(ctx, c.Storage, c.CheckpointPath); err != nil {
			return fmt.Errorf("super-chunk %s: %w", super.RangePath(), err)
		}
		logger.For(ctx).Infof("committed super-chunk %s", super.RangePath())
	}

	return nil
}
