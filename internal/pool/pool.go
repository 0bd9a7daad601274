// Package pool implements the Worker Pool: bounded concurrency over
// a FIFO queue of Chunks, one Chunk Pipeline execution per dequeued chunk.
// Chunks are dispatched in order but complete out of order; the Batch
// Controller serializes the checkpoint write after the whole pool drains rather
// than relying on completion order.
package pool

import (
	"context"
	"sync"

	"github.com/gammazero/workerpool"

	"github.com/ethetl/ethetl/internal/chunkrange"
	"github.com/ethetl/ethetl/internal/logger"
)

// Runner executes one chunk. pipeline.Pipeline satisfies this.
type Runner interface {
	Run(ctx context.Context, chunk chunkrange.Chunk) error
}

// Run pushes every chunk onto a pool of maxWorker concurrent tasks, waits for
// all of them to finish, and returns nil if every chunk succeeded or the first
// error observed otherwise. Chunks already running when an error occurs still
// run to completion and log their own outcome.
func Run(ctx context.Context, runner Runner, chunks []chunkrange.Chunk, maxWorker int) error {
	if maxWorker < 1 {
		maxWorker = 1
	}

	wp := workerpool.New(maxWorker)

	var mu sync.Mutex
	var firstErr error

	for _, chunk := range chunks {
		chunk := chunk
		wp.Submit(func() {
			if err := runner.Run(ctx, chunk); err != nil {
				logger.For(ctx).WithError(err).Errorf("chunk %s failed", chunk.RangePath())
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
	}

	wp.StopWait()
	return firstErr
}
