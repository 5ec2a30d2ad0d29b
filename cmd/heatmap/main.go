// Package main runs the full watchlist heatmap pipeline:
// identity resolution → warehouse fetch → aggregation → matrix → report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"black-heatmap/internal/config"
	"black-heatmap/internal/domain"
	"black-heatmap/internal/identity"
	"black-heatmap/internal/matrix"
	"black-heatmap/internal/pipeline"
	"black-heatmap/internal/reporting"
	"black-heatmap/internal/storage"
	chstore "black-heatmap/internal/storage/clickhouse"
	"black-heatmap/internal/storage/memory"
	pgstore "black-heatmap/internal/storage/postgres"
	"black-heatmap/internal/watchlist"
)

const dateLayout = "2006-01-02"

func main() {
	configPath := flag.String("config", "", "Path to TOML config file (optional)")
	watchlistPath := flag.String("watchlist", "", "Path to watchlist file (one MID per line, CSV accepted)")
	startStr := flag.String("start", "", "Trade window start date (YYYY-MM-DD, inclusive)")
	endStr := flag.String("end", "", "Trade window end date (YYYY-MM-DD, exclusive)")
	checkpointStr := flag.String("checkpoint", "", "Access-log checkpoint date (YYYY-MM-DD, defaults to start)")
	bucketHours := flag.Int("bucket-hours", 0, "Bucket width in hours (overrides config)")
	metric := flag.String("metric", "", "Heatmap metric (overrides config)")
	outputDir := flag.String("output-dir", "", "Output directory (overrides config)")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of databases")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling run...\n", sig)
		cancel()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, *bucketHours, *metric, *outputDir, *verbose)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *watchlistPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --watchlist is required")
		os.Exit(1)
	}
	if *startStr == "" || *endStr == "" {
		fmt.Fprintln(os.Stderr, "Error: --start and --end are required")
		os.Exit(1)
	}

	start, err := time.ParseInLocation(dateLayout, *startStr, time.UTC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --start: %v\n", err)
		os.Exit(1)
	}
	end, err := time.ParseInLocation(dateLayout, *endStr, time.UTC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --end: %v\n", err)
		os.Exit(1)
	}
	checkpoint := start
	if *checkpointStr != "" {
		checkpoint, err = time.ParseInLocation(dateLayout, *checkpointStr, time.UTC)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --checkpoint: %v\n", err)
			os.Exit(1)
		}
	}

	// Load and validate the watchlist
	mids, err := watchlist.Load(*watchlistPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading watchlist: %v\n", err)
		os.Exit(1)
	}
	valid, invalid := watchlist.Validate(mids)
	if len(invalid) > 0 {
		fmt.Printf("Skipping %d malformed watchlist entries: %v\n", len(invalid), invalid)
	}
	if len(valid) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no valid MIDs in watchlist")
		os.Exit(1)
	}

	// Create stores based on mode
	var (
		identityStore storage.IdentityStore
		tradeStore    storage.TradeFactStore
		accessStore   storage.AccessLogStore
		decryptor     identity.Decryptor
		cleanup       func()
	)
	if *useFixtures {
		identityStore, tradeStore, accessStore = createFixtureStores(valid, start)
		decryptor = identity.PlaintextDecryptor
		cleanup = func() {}
	} else {
		identityStore, tradeStore, accessStore, decryptor, cleanup, err = createDatabaseStores(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to databases: %v\n", err)
			os.Exit(1)
		}
	}
	defer cleanup()

	resolver := identity.NewResolver(identityStore, decryptor).WithBatchSize(cfg.Identity.BatchSize)
	p := pipeline.New(resolver, tradeStore, accessStore).WithVerbose(cfg.Verbose)

	result, err := p.Run(ctx, pipeline.Params{
		MIDs:        valid,
		Start:       start,
		End:         end,
		Checkpoint:  checkpoint,
		BucketWidth: cfg.Pipeline.BucketWidth.Duration,
		Metric:      domain.Metric(cfg.Pipeline.Metric),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		case errors.Is(err, domain.ErrSourceUnavailable):
			fmt.Fprintf(os.Stderr, "Source unavailable: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		}
		os.Exit(1)
	}

	report := reporting.NewGenerator(cfg.Report.TopN).Generate(result)

	if err := writeOutputs(cfg.Report.OutputDir, result, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing outputs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run %s completed:\n", result.RunID)
	fmt.Printf("  Profiles: %d (unmatched: %d)\n", len(result.Profiles), len(result.UnmatchedMIDs))
	fmt.Printf("  Trade groups: %d | Matrix: %d × %d\n",
		len(result.Widthed), len(result.Heatmap.MIDs), len(result.Heatmap.Columns))
	for _, w := range result.IntegrityWarnings {
		fmt.Printf("  Warning: %s\n", w)
	}
	fmt.Printf("Outputs in %s:\n", cfg.Report.OutputDir)
	for _, name := range outputFiles {
		fmt.Printf("  - %s\n", filepath.Join(cfg.Report.OutputDir, name))
	}
}

func applyFlagOverrides(cfg *config.Config, bucketHours int, metric, outputDir string, verbose bool) {
	if bucketHours > 0 {
		cfg.Pipeline.BucketWidth.Duration = time.Duration(bucketHours) * time.Hour
	}
	if metric != "" {
		cfg.Pipeline.Metric = metric
	}
	if outputDir != "" {
		cfg.Report.OutputDir = outputDir
	}
	if verbose {
		cfg.Verbose = true
	}
}

// createDatabaseStores connects to PostgreSQL and ClickHouse and builds the
// production store set. The returned cleanup closes both connections.
func createDatabaseStores(ctx context.Context, cfg *config.Config) (storage.IdentityStore, storage.TradeFactStore, storage.AccessLogStore, identity.Decryptor, func(), error) {
	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("postgres: %w", err)
	}
	conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN())
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, nil, fmt.Errorf("clickhouse: %w", err)
	}

	key, err := cfg.DecryptKeyBytes()
	if err != nil {
		pool.Close()
		_ = conn.Close()
		return nil, nil, nil, nil, nil, err
	}
	decryptor := identity.PlaintextDecryptor
	if key != nil {
		decryptor, err = identity.NewAEADDecryptor(key)
		if err != nil {
			pool.Close()
			_ = conn.Close()
			return nil, nil, nil, nil, nil, err
		}
	}

	cleanup := func() {
		pool.Close()
		_ = conn.Close()
	}
	return pgstore.NewIdentityStore(pool),
		chstore.NewTradeFactStore(conn),
		chstore.NewAccessLogStore(conn),
		decryptor, cleanup, nil
}

var outputFiles = []string{
	"REPORT.md",
	"profiles.csv",
	"access_summary.csv",
	"join_dates.csv",
	"trade_detail.csv",
	"hourly_summary.csv",
	"daily_detail.csv",
	"heatmap.csv",
}

// writeOutputs renders and writes every artifact of one run.
func writeOutputs(dir string, result *pipeline.Result, report *reporting.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	artifacts := map[string]string{
		"REPORT.md":          reporting.RenderMarkdown(report),
		"profiles.csv":       reporting.ProfilesCSV(result.Profiles),
		"access_summary.csv": reporting.AccessCSV(result.AccessSummaries),
		"join_dates.csv":     reporting.JoinDatesCSV(result.JoinDates),
		"trade_detail.csv":   reporting.LongFormCSV(result.LongForm),
		"hourly_summary.csv": reporting.LongFormCSV(matrix.ToLongForm(result.Hourly)),
		"daily_detail.csv":   reporting.LongFormCSV(matrix.ToLongForm(result.DailyDetail)),
		"heatmap.csv":        reporting.MatrixCSV(result.Heatmap),
	}
	for name, content := range artifacts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// createFixtureStores builds memory stores seeded with demo data that
// exercises every stage: resolved profiles, buy/sell trades across several
// buckets, access rows and join dates.
func createFixtureStores(mids []string, start time.Time) (storage.IdentityStore, storage.TradeFactStore, storage.AccessLogStore) {
	identityStore := memory.NewIdentityStore()
	tradeStore := memory.NewTradeFactStore()
	accessStore := memory.NewAccessLogStore()
	seedFixtures(identityStore, tradeStore, accessStore, mids, start)
	return identityStore, tradeStore, accessStore
}
