// Package main resolves watchlist MIDs against the identity source only
// and prints the resulting profiles as CSV. Useful for checking coverage
// before a full heatmap run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"black-heatmap/internal/config"
	"black-heatmap/internal/domain"
	"black-heatmap/internal/identity"
	"black-heatmap/internal/reporting"
	pgstore "black-heatmap/internal/storage/postgres"
	"black-heatmap/internal/watchlist"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file (optional)")
	watchlistPath := flag.String("watchlist", "", "Path to watchlist file (one MID per line, CSV accepted)")
	output := flag.String("output", "", "Output CSV path (default: stdout)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *watchlistPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --watchlist is required")
		os.Exit(1)
	}
	mids, err := watchlist.Load(*watchlistPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading watchlist: %v\n", err)
		os.Exit(1)
	}
	valid, invalid := watchlist.Validate(mids)
	if len(invalid) > 0 {
		fmt.Fprintf(os.Stderr, "Skipping %d malformed watchlist entries: %v\n", len(invalid), invalid)
	}
	if len(valid) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no valid MIDs in watchlist")
		os.Exit(1)
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to identity source: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	key, err := cfg.DecryptKeyBytes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	decryptor := identity.PlaintextDecryptor
	if key != nil {
		decryptor, err = identity.NewAEADDecryptor(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	resolver := identity.NewResolver(pgstore.NewIdentityStore(pool), decryptor).
		WithBatchSize(cfg.Identity.BatchSize)

	profiles, matched, err := resolver.Resolve(ctx, valid)
	if err != nil {
		if errors.Is(err, domain.ErrSourceUnavailable) {
			fmt.Fprintf(os.Stderr, "Source unavailable: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Resolve error: %v\n", err)
		}
		os.Exit(1)
	}

	csv := reporting.ProfilesCSV(profiles)
	if *output == "" {
		fmt.Print(csv)
	} else if err := os.WriteFile(*output, []byte(csv), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *output, err)
		os.Exit(1)
	}

	if unmatched := identity.Unmatched(valid, matched); len(unmatched) > 0 {
		fmt.Fprintf(os.Stderr, "Unmatched MIDs (%d): %v\n", len(unmatched), unmatched)
	}
}
