// Package matrix pivots aggregated buckets into the dense MID ×
// time-bucket heatmap grid and the long-form detail table.
package matrix

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"black-heatmap/internal/aggregate"
	"black-heatmap/internal/domain"
)

// Assembler builds heatmap matrices from aggregated buckets.
type Assembler struct {
	// OrphanRows counts aggregated rows whose user is not part of the
	// requested MID set, keyed by user id. Such rows are excluded from
	// the matrix but must stay observable: dropping them silently would
	// corrupt totals unnoticed. Reset on every Assemble call.
	OrphanRows map[string]int
}

// NewAssembler creates a new Assembler.
func NewAssembler() *Assembler {
	return &Assembler{OrphanRows: make(map[string]int)}
}

// EnumerateBuckets produces the full ordered column sequence covering
// [start, end) at the given width. Even buckets with no data must appear
// in the matrix, so the heatmap renders gaps as "no activity" rather
// than compressing time.
func EnumerateBuckets(start, end time.Time, width time.Duration) ([]domain.TimeBucket, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s not before end %s", domain.ErrInvalidInput, start, end)
	}
	if err := aggregate.ValidateWidth(width); err != nil {
		return nil, err
	}

	var columns []domain.TimeBucket
	for cursor := aggregate.BucketStart(start, width); cursor.Before(end); cursor = cursor.Add(width) {
		columns = append(columns, domain.TimeBucket{Start: cursor, Width: width})
	}
	return columns, nil
}

// Assemble pivots buckets into a dense matrix: rows follow the caller's
// MID order (watchlist priority), columns are the enumerated sequence.
// Absent cells are zero-filled for amount metrics; nullable metrics
// (average prices) keep null so the emitter decides the rendering.
func (a *Assembler) Assemble(buckets []domain.AggregatedBucket, mids []string, columns []domain.TimeBucket, metric domain.Metric) (*domain.HeatmapMatrix, error) {
	if len(mids) == 0 {
		return nil, fmt.Errorf("assemble: %w: empty mid list", domain.ErrInvalidInput)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("assemble: %w: empty bucket sequence", domain.ErrInvalidInput)
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("assemble: %w: unknown metric %q", domain.ErrInvalidInput, metric)
	}

	a.OrphanRows = make(map[string]int)

	rowIndex := make(map[string]int, len(mids))
	for i, mid := range mids {
		rowIndex[mid] = i
	}
	colIndex := make(map[int64]int, len(columns))
	for j, col := range columns {
		colIndex[col.Start.Unix()] = j
	}

	cells := make([][]decimal.NullDecimal, len(mids))
	for i := range cells {
		cells[i] = make([]decimal.NullDecimal, len(columns))
		if !metric.Nullable() {
			for j := range cells[i] {
				cells[i][j] = decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
			}
		}
	}

	for _, b := range buckets {
		i, ok := rowIndex[b.UserID]
		if !ok {
			a.OrphanRows[b.UserID]++
			continue
		}
		j, ok := colIndex[b.Bucket.Start.Unix()]
		if !ok {
			// Bucket outside the requested window; the fetch window and
			// the enumerated columns are the same range, so this only
			// happens on width mismatch between aggregation and columns.
			return nil, fmt.Errorf("assemble: %w: bucket %s outside column range",
				domain.ErrInvalidInput, b.Bucket.Label())
		}
		cells[i][j] = metricValue(b, metric)
	}

	return &domain.HeatmapMatrix{
		Metric:  metric,
		MIDs:    mids,
		Columns: columns,
		Cells:   cells,
	}, nil
}

// Warnings renders orphan-row counts as integrity warnings, sorted by
// user id for deterministic output.
func (a *Assembler) Warnings() []string {
	if len(a.OrphanRows) == 0 {
		return nil
	}

	users := make([]string, 0, len(a.OrphanRows))
	for id := range a.OrphanRows {
		users = append(users, id)
	}
	sort.Strings(users)

	warnings := make([]string, len(users))
	for i, id := range users {
		warnings[i] = fmt.Sprintf("user %s has %d aggregated row(s) but is not on the watchlist: excluded from matrix",
			id, a.OrphanRows[id])
	}
	return warnings
}

func metricValue(b domain.AggregatedBucket, metric domain.Metric) decimal.NullDecimal {
	switch metric {
	case domain.MetricTotalAmount:
		return decimal.NullDecimal{Decimal: b.TotalAmount, Valid: true}
	case domain.MetricBuyAmount:
		return decimal.NullDecimal{Decimal: b.BuyAmount, Valid: true}
	case domain.MetricSellAmount:
		return decimal.NullDecimal{Decimal: b.SellAmount, Valid: true}
	case domain.MetricTradeCount:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(b.TotalCount)), Valid: true}
	case domain.MetricAvgBuyPrice:
		if b.AvgBuyPrice == nil {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: *b.AvgBuyPrice, Valid: true}
	case domain.MetricAvgSellPrice:
		if b.AvgSellPrice == nil {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: *b.AvgSellPrice, Valid: true}
	}
	return decimal.NullDecimal{}
}
