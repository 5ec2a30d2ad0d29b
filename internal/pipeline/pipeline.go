// Package pipeline wires the stages together: identity resolution and
// fact fetching (independent sources, queried concurrently), temporal
// aggregation at each granularity, then matrix assembly.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"black-heatmap/internal/aggregate"
	"black-heatmap/internal/domain"
	"black-heatmap/internal/identity"
	"black-heatmap/internal/matrix"
	"black-heatmap/internal/storage"
)

// Params are the inbound run parameters from the CLI/config layer.
type Params struct {
	MIDs        []string  // watchlist, caller order preserved in the matrix
	Start       time.Time // trade window start (inclusive)
	End         time.Time // trade window end (exclusive)
	Checkpoint  time.Time // access-log inclusive lower bound
	BucketWidth time.Duration
	Metric      domain.Metric
}

// Result is everything one run produces, all plain tabular structures;
// formatting belongs to the report emitter.
type Result struct {
	RunID       string
	GeneratedAt time.Time
	Params      Params

	Profiles        []domain.Profile
	UnmatchedMIDs   []string
	AccessSummaries []domain.AccessSummary
	JoinDates       []domain.JoinDate

	// Hourly and Widthed are intraday aggregations at 1h and at
	// Params.BucketWidth; DailyDetail carries the per-market/ticker
	// calendar-day breakdown.
	Hourly      []domain.AggregatedBucket
	Widthed     []domain.AggregatedBucket
	DailyDetail []domain.AggregatedBucket

	LongForm []matrix.LongRow
	Heatmap  *domain.HeatmapMatrix

	IntegrityWarnings []string
}

// Pipeline runs the full cross-source correlation flow.
type Pipeline struct {
	resolver *identity.Resolver
	trades   storage.TradeFactStore
	access   storage.AccessLogStore
	verbose  bool
}

// New creates a Pipeline over the given resolver and warehouse stores.
func New(resolver *identity.Resolver, trades storage.TradeFactStore, access storage.AccessLogStore) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		trades:   trades,
		access:   access,
	}
}

// WithVerbose enables progress logging.
func (p *Pipeline) WithVerbose(v bool) *Pipeline {
	p.verbose = v
	return p
}

// Run executes one full invocation. Each stage fully materializes its
// output before the next begins; the two sources are queried
// concurrently but independently, so results are identical to a
// sequential run. A failure from either source fails the run — no
// partial results are synthesized from the other.
func (p *Pipeline) Run(ctx context.Context, params Params) (*Result, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Params:      params,
	}

	var (
		facts       []*domain.TradeFact
		accesses    []*domain.AccessFact
		joins       []*domain.JoinDate
		matchedMIDs []string
	)

	p.log("Phase 1: Querying identity and warehouse sources...")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profiles, matched, err := p.resolver.Resolve(gctx, params.MIDs)
		if err != nil {
			return err
		}
		result.Profiles = profiles
		matchedMIDs = matched
		return nil
	})
	g.Go(func() error {
		var err error
		facts, err = p.trades.FetchTrades(gctx, params.MIDs, params.Start, params.End)
		return err
	})
	g.Go(func() error {
		var err error
		accesses, err = p.access.FetchAccess(gctx, params.MIDs, params.Checkpoint)
		if err != nil {
			return err
		}
		joins, err = p.access.FetchJoinDates(gctx, params.MIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.log("  Resolved %d profiles, fetched %d trades, %d access rows", len(result.Profiles), len(facts), len(accesses))

	result.UnmatchedMIDs = identity.Unmatched(params.MIDs, matchedMIDs)
	result.AccessSummaries = aggregate.RollupAccess(accesses)
	for _, j := range joins {
		result.JoinDates = append(result.JoinDates, *j)
	}

	p.log("Phase 2: Aggregating trades...")
	agg := aggregate.NewAggregator()

	hourly, err := agg.Aggregate(facts, time.Hour, domain.GranularityIntraday)
	if err != nil {
		return nil, err
	}
	result.Hourly = hourly

	widthed, err := agg.Aggregate(facts, params.BucketWidth, domain.GranularityIntraday)
	if err != nil {
		return nil, err
	}
	result.Widthed = widthed
	result.IntegrityWarnings = append(result.IntegrityWarnings, agg.Warnings()...)

	daily, err := agg.Aggregate(facts, 24*time.Hour, domain.GranularityDaily)
	if err != nil {
		return nil, err
	}
	result.DailyDetail = daily
	p.log("  %d hourly, %d widthed, %d daily-detail groups", len(hourly), len(widthed), len(daily))

	p.log("Phase 3: Assembling heatmap matrix...")
	columns, err := matrix.EnumerateBuckets(params.Start, params.End, params.BucketWidth)
	if err != nil {
		return nil, err
	}
	assembler := matrix.NewAssembler()
	heatmap, err := assembler.Assemble(widthed, params.MIDs, columns, params.Metric)
	if err != nil {
		return nil, err
	}
	result.Heatmap = heatmap
	result.LongForm = matrix.ToLongForm(widthed)
	result.IntegrityWarnings = append(result.IntegrityWarnings, assembler.Warnings()...)
	p.log("  Matrix %d × %d, %d warnings", len(heatmap.MIDs), len(heatmap.Columns), len(result.IntegrityWarnings))

	return result, nil
}

func validateParams(params Params) error {
	if len(params.MIDs) == 0 {
		return fmt.Errorf("run: %w: empty watchlist", domain.ErrInvalidInput)
	}
	if !params.Start.Before(params.End) {
		return fmt.Errorf("run: %w: start %s not before end %s",
			domain.ErrInvalidInput, params.Start, params.End)
	}
	if err := aggregate.ValidateWidth(params.BucketWidth); err != nil {
		return err
	}
	if !params.Metric.Valid() {
		return fmt.Errorf("run: %w: unknown metric %q", domain.ErrInvalidInput, params.Metric)
	}
	return nil
}

func (p *Pipeline) log(format string, args ...any) {
	if p.verbose {
		log.Printf(format, args...)
	}
}
