// Package cmd is the extractor's CLI surface: a root command with one
// subcommand per operating mode, batch and stream. Flags are bound into viper
// so the override order is defaults < config file < environment < flags.
package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ethetl/ethetl/internal/apperrors"
	"github.com/ethetl/ethetl/internal/config"
	"github.com/ethetl/ethetl/internal/ethrpc"
	"github.com/ethetl/ethetl/internal/etl"
	"github.com/ethetl/ethetl/internal/logger"
	"github.com/ethetl/ethetl/internal/metric"
	"github.com/ethetl/ethetl/internal/progress"
	"github.com/ethetl/ethetl/internal/sentryutil"
	"github.com/ethetl/ethetl/internal/storage"
)

var configFile string

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "path to a config file")
	pf.String("provider-uri", "", "JSON-RPC endpoint URL")
	pf.Uint64("start-block", 0, "first block to extract")
	pf.Uint64("end-block", 0, "last block to extract")
	pf.Uint64("batch-size", 10000, "blocks per pipeline execution")
	pf.Int("max-worker", 4, "concurrent pipeline executions")
	pf.Uint64("web3-batch-size", 10000, "RPC batch fan-out inside a fetcher")
	pf.Uint64("syncing-interval-secs", 15, "stream mode tick interval")
	pf.String("output-dir", ".datas", "prefix under the storage root")
	pf.String("output-format", "csv", "csv or parquet")
	pf.String("storage-type", "fs", "fs, s3 or azblob")
	pf.Bool("include-traces", false, "also export the traces dataset")
	pf.StringP("env", "e", "local", "env to run with")

	for flag, key := range map[string]string{
		"provider-uri":          "provider_uri",
		"start-block":           "start_block",
		"end-block":             "end_block",
		"batch-size":            "batch_size",
		"max-worker":            "max_worker",
		"web3-batch-size":       "web3_batch_size",
		"syncing-interval-secs": "syncing_interval_secs",
		"output-dir":            "output_dir",
		"output-format":         "output_format",
		"storage-type":          "storage.type",
		"include-traces":        "include_traces",
		"env":                   "env",
	} {
		viper.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(streamCmd)
}

var rootCmd = &cobra.Command{
	Use:   "ethetl",
	Short: "Extract Ethereum blocks into columnar datasets",
	Long: `ethetl pulls a contiguous range of blocks from a JSON-RPC node and writes
blocks, transactions, receipts, logs, token transfers and ENS registrations as
CSV or Parquet to a filesystem, S3 or Azure Blob backend.`,
	SilenceUsage: true,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract [start-block, end-block] once, resuming from the checkpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), "batch")
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Follow the node's tip, extracting each new suffix as it appears",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), "stream")
	},
}

func run(ctx context.Context, mode string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if err := initLogger(cfg); err != nil {
		return err
	}
	initSentry(cfg)

	ctx = logger.NewContextWithFields(ctx, logrus.Fields{
		"run_id": uuid.New().String(),
		"mode":   mode,
	})
	ctx = sentryutil.NewSentryHubContext(ctx)
	defer sentryutil.RecoverAndRaise(ctx)

	client, err := ethrpc.NewClient(ctx, cfg.ProviderURI)
	if err != nil {
		return err
	}
	defer client.Close()

	op, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}

	tracker := progress.New(0)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tracker.Run(ctx, mode, metric.NewLogMetricReporter())
	}()

	exporter := &etl.Exporter{Cfg: cfg, Client: client, Storage: op, Progress: tracker}

	var runErr error
	switch mode {
	case "batch":
		runErr = exporter.RunBatch(ctx)
	default:
		runErr = exporter.RunStream(ctx)
	}

	tracker.Stop()
	wg.Wait()

	if runErr != nil {
		logger.For(ctx).WithError(runErr).Error("run failed")
		sentryutil.ReportError(ctx, runErr)
		sentryutil.Flush(2 * time.Second)
	}
	return runErr
}

func initLogger(cfg *config.Config) error {
	logger.InitWithGCPDefaults(cfg.Env)

	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLoggerOptions(func(l *logrus.Logger) { l.SetLevel(lvl) })
	}

	if cfg.Log.Dir != "" {
		if err := os.MkdirAll(cfg.Log.Dir, 0o755); err != nil {
			return &apperrors.ConfigError{Field: "log.dir", Reason: err.Error()}
		}
		f, err := os.OpenFile(filepath.Join(cfg.Log.Dir, "ethetl.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return &apperrors.ConfigError{Field: "log.dir", Reason: err.Error()}
		}
		logger.SetLoggerOptions(func(l *logrus.Logger) { l.SetOutput(io.MultiWriter(os.Stderr, f)) })
	}
	return nil
}

func initSentry(cfg *config.Config) {
	if cfg.Env == "local" {
		logger.For(nil).Info("skipping sentry init")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry_dsn"),
		Environment:      cfg.Env,
		AttachStacktrace: true,
	})
	if err != nil {
		logger.For(nil).Fatalf("failed to start sentry: %s", err)
	}
}

// Execute runs the CLI; the process exits non-zero on any unrecoverable error.
func Execute() error {
	return rootCmd.Execute()
}
