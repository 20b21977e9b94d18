package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/althingi-data/umbodsmadur-crawler/internal/api"
	"github.com/althingi-data/umbodsmadur-crawler/internal/config"
	"github.com/althingi-data/umbodsmadur-crawler/internal/logging"
	"github.com/althingi-data/umbodsmadur-crawler/internal/progress"
	"github.com/althingi-data/umbodsmadur-crawler/internal/progress/sinks"
	"github.com/althingi-data/umbodsmadur-crawler/internal/scraper"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a backward ID scan and write the collected cases as JSON",
		Long: `Probes candidate document IDs in descending windows starting from
--start-id, classifies and extracts each published case, and writes the
collected records to the output path in descending ID order. Exhausting the
ID space before reaching --count is a normal outcome, not an error.`,
		RunE: runScan,
	}

	cmd.Flags().Int64("start-id", 0, "highest candidate ID to probe (overrides config)")
	cmd.Flags().Int("count", 0, "number of cases to collect (overrides config)")
	cmd.Flags().String("output", "", "output JSON path (overrides config)")
	cmd.Flags().Bool("serve-status", false, "serve /status and /metrics while scanning")

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd, &cfg); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	return executeScan(cmd.Context(), cfg, logger)
}

// applyFlagOverrides layers explicit CLI flags over the loaded config and
// re-validates the result.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("start-id") {
		v, err := cmd.Flags().GetInt64("start-id")
		if err != nil {
			return err
		}
		cfg.Scan.StartID = v
	}
	if cmd.Flags().Changed("count") {
		v, err := cmd.Flags().GetInt("count")
		if err != nil {
			return err
		}
		cfg.Scan.TargetCount = v
	}
	if cmd.Flags().Changed("output") {
		v, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		cfg.Output.Path = v
	}
	if cmd.Flags().Changed("serve-status") {
		v, err := cmd.Flags().GetBool("serve-status")
		if err != nil {
			return err
		}
		cfg.Server.Enabled = v
	}
	return cfg.Validate()
}

func executeScan(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	runID := uuid.New()

	registry := prometheus.NewRegistry()
	promSink, err := sinks.NewPrometheusSink(registry)
	if err != nil {
		return fmt.Errorf("init metrics sink: %w", err)
	}
	stateSink := sinks.NewStateSink()
	hub := progress.NewHub(
		progress.Config{Logger: logger},
		sinks.NewLogSink(logger),
		promSink,
		stateSink,
	)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if cerr := hub.Close(closeCtx); cerr != nil {
			logger.Warn("progress hub close failed", zap.Error(cerr))
		}
	}()

	var statusSrv *api.Server
	if cfg.Server.Enabled {
		statusSrv = api.NewServer(stateSink, registry, cfg.Server.Port, logger)
		statusSrv.Start()
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := statusSrv.Shutdown(shutCtx); serr != nil {
				logger.Warn("status server shutdown failed", zap.Error(serr))
			}
		}()
	}

	fetcher := scraper.NewPageFetcher(
		scraper.FetcherConfig{
			BaseURL:       cfg.Site.BaseURL,
			UserAgent:     cfg.Site.UserAgent,
			Timeout:       cfg.Timeout(),
			RespectRobots: cfg.Site.RespectRobots,
			RateLimit:     rate.Limit(cfg.HTTP.RatePerSecond),
			RateBurst:     cfg.HTTP.RateBurst,
		},
		scraper.NewRetryPolicy(cfg.HTTP.MaxAttempts, cfg.BackoffInitial(), cfg.BackoffMax()),
		logger,
	)
	classifier := scraper.NewHeuristicClassifier(nil, nil)
	extractor := scraper.NewCaseExtractor(cfg.Site.BaseURL)
	source := scraper.NewDescendingSource(
		scraper.CandidateID(cfg.Scan.StartID),
		scraper.CandidateID(cfg.Scan.FloorID),
		cfg.Scan.BatchSize,
	)

	scanner, err := scraper.NewScanner(
		fetcher,
		classifier,
		extractor,
		source,
		scraper.SystemClock{},
		hub,
		runID,
		scraper.ScannerConfig{
			TargetCount: cfg.Scan.TargetCount,
			Concurrency: cfg.Scan.Concurrency,
		},
		logger,
	)
	if err != nil {
		return fmt.Errorf("init scanner: %w", err)
	}

	records, report := scanner.Run(ctx)

	sink, err := scraper.NewJSONFileSink(cfg.Output.Path, cfg.Output.Pretty, logger)
	if err != nil {
		return fmt.Errorf("init output sink: %w", err)
	}
	// Write with a fresh context so an interrupt mid-scan still flushes the
	// partial corpus.
	writeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sink.Write(writeCtx, records); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if report.Status == scraper.ScanExhausted {
		logger.Warn("ID space exhausted before reaching target",
			zap.Int("collected", report.State.CollectedCount),
			zap.Int("target", report.State.TargetCount),
		)
	}
	return nil
}
