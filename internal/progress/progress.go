// Package progress implements the Progress Tracker: a process-wide
// set of relaxed-ordering atomic counters shared by every worker, plus a
// background task that prints a summary line every 2 seconds until
// cooperatively stopped.
package progress

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethetl/ethetl/internal/metric"
)

// Tracker holds the shared counter set:
// {all, blocks, txs, receipts, logs, token_transfers, ens, traces,
// max_block_number}, plus decode_skipped. all is the denominator of the printed percentage
// (total blocks to process in the current run).
type Tracker struct {
	all            uint64
	blocks         uint64
	txs            uint64
	receipts       uint64
	logs           uint64
	tokenTransfers uint64
	ens            uint64
	traces         uint64
	decodeSkipped  uint64
	maxBlockNumber uint64

	stopped int32
}

// New returns a Tracker configured with the total block count for the current
// run (the "all" denominator for the printed percentage).
func New(all uint64) *Tracker {
	return &Tracker{all: all}
}

// AddAll grows the denominator by n. BatchMode sets it once up front; StreamMode
// grows it on every tick as the tip advances.
func (t *Tracker) AddAll(n uint64) { atomic.AddUint64(&t.all, n) }

func (t *Tracker) AddBlocks(n uint64)         { atomic.AddUint64(&t.blocks, n) }
func (t *Tracker) AddTxs(n uint64)            { atomic.AddUint64(&t.txs, n) }
func (t *Tracker) AddReceipts(n uint64)       { atomic.AddUint64(&t.receipts, n) }
func (t *Tracker) AddLogs(n uint64)           { atomic.AddUint64(&t.logs, n) }
func (t *Tracker) AddTokenTransfers(n uint64) { atomic.AddUint64(&t.tokenTransfers, n) }
func (t *Tracker) AddEns(n uint64)            { atomic.AddUint64(&t.ens, n) }
func (t *Tracker) AddTraces(n uint64)         { atomic.AddUint64(&t.traces, n) }
func (t *Tracker) AddDecodeSkipped(n uint64)  { atomic.AddUint64(&t.decodeSkipped, n) }

// ObserveMaxBlockNumber records n if it's the highest block number seen so far.
func (t *Tracker) ObserveMaxBlockNumber(n uint64) {
	for {
		cur := atomic.LoadUint64(&t.maxBlockNumber)
		if n <= cur {
			return
		}
		if atomic.CompareAndSwapUint64(&t.maxBlockNumber, cur, n) {
			return
		}
	}
}

// line renders one summary line: counts, percentage blocks/all, and mode name.
func (t *Tracker) line(mode string) string {
	all := atomic.LoadUint64(&t.all)
	blocks := atomic.LoadUint64(&t.blocks)
	pct := 0.0
	if all > 0 {
		pct = 100 * float64(blocks) / float64(all)
	}
	return fmt.Sprintf(
		"mode=%s blocks=%d/%d (%.2f%%) txs=%d receipts=%d logs=%d token_transfers=%d ens=%d traces=%d decode_skipped=%d max_block=%d",
		mode, blocks, all, pct,
		atomic.LoadUint64(&t.txs),
		atomic.LoadUint64(&t.receipts),
		atomic.LoadUint64(&t.logs),
		atomic.LoadUint64(&t.tokenTransfers),
		atomic.LoadUint64(&t.ens),
		atomic.LoadUint64(&t.traces),
		atomic.LoadUint64(&t.decodeSkipped),
		atomic.LoadUint64(&t.maxBlockNumber),
	)
}

// Stop signals the background printer to exit after its next tick and print a
// final line.
func (t *Tracker) Stop() { atomic.StoreInt32(&t.stopped, 1) }

func (t *Tracker) isStopped() bool { return atomic.LoadInt32(&t.stopped) == 1 }

// Run starts the background printer, blocking until Stop is called or ctx is
// done; it then prints one final line before returning. Mode Drivers start
// this as a long-lived task. Each line is reported as a
// blocks_exported measure so log-scraping alert rules see a stable metric name
// alongside the human-readable summary.
func (t *Tracker) Run(ctx context.Context, mode string, reporter metric.MetricReporter) {
	if reporter.Record == nil {
		reporter = metric.NewLogMetricReporter()
	}
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	report := func() {
		reporter.Record(ctx, metric.Measure{Name: "blocks_exported", Value: float64(atomic.LoadUint64(&t.blocks))},
			metric.LogOptions.WithTags(map[string]string{"mode": mode}),
			metric.LogOptions.WithLogMessage(t.line(mode)),
		)
	}

	for {
		select {
		case <-ctx.Done():
			report()
			return
		case <-ticker.C:
			report()
			if t.isStopped() {
				return
			}
		}
	}
}
