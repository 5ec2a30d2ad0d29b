// Package aggregate buckets raw trade facts into fixed-width time windows
// and computes per-bucket buy/sell metrics, plus the per-user rollup of
// session-access facts.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"black-heatmap/internal/domain"
)

// Aggregator groups trade facts and computes per-group metrics.
type Aggregator struct {
	// UnknownCategories counts trades whose category is neither buy nor
	// sell, keyed by raw category code. Such trades count toward totals
	// only; the counts are surfaced as integrity warnings, not dropped
	// silently. Reset on every Aggregate call.
	UnknownCategories map[domain.TradeCategory]int
}

// NewAggregator creates a new Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		UnknownCategories: make(map[domain.TradeCategory]int),
	}
}

// groupKey identifies one accumulator. Market and ticker participate only
// in daily-detail mode.
type groupKey struct {
	userID string
	start  int64 // bucket start, unix seconds
	market string
	ticker string
}

// accumulator collects running sums for one group. Category handling goes
// through the dispatch table below so each metric's buy/sell conditional
// lives in exactly one place.
type accumulator struct {
	buyAmount, sellAmount, totalAmount decimal.Decimal
	buyQty, sellQty                    decimal.Decimal
	buyPriceSum, sellPriceSum          decimal.Decimal
	buyCount, sellCount, totalCount    int
	tickers                            map[string]struct{}
}

var categoryApply = map[domain.TradeCategory]func(*accumulator, *domain.TradeFact){
	domain.TradeBuy: func(acc *accumulator, f *domain.TradeFact) {
		acc.buyAmount = acc.buyAmount.Add(f.Amount)
		acc.buyQty = acc.buyQty.Add(f.Quantity)
		acc.buyPriceSum = acc.buyPriceSum.Add(f.Price)
		acc.buyCount++
	},
	domain.TradeSell: func(acc *accumulator, f *domain.TradeFact) {
		acc.sellAmount = acc.sellAmount.Add(f.Amount)
		acc.sellQty = acc.sellQty.Add(f.Quantity)
		acc.sellPriceSum = acc.sellPriceSum.Add(f.Price)
		acc.sellCount++
	},
}

// Aggregate buckets facts at the given width. Intraday mode requires a
// whole-hour width that divides 24h evenly; daily mode uses calendar days
// and adds (market, ticker) to the grouping key. Output is ordered by
// (user, bucket start, market, ticker). A malformed fact fails the whole
// run: silently zeroing a trade amount would under-report activity.
func (a *Aggregator) Aggregate(facts []*domain.TradeFact, width time.Duration, granularity domain.Granularity) ([]domain.AggregatedBucket, error) {
	if granularity == domain.GranularityDaily {
		width = 24 * time.Hour
	}
	if err := ValidateWidth(width); err != nil {
		return nil, err
	}

	a.UnknownCategories = make(map[domain.TradeCategory]int)

	groups := make(map[groupKey]*accumulator)
	for i, f := range facts {
		if err := validateFact(f); err != nil {
			return nil, fmt.Errorf("fact %d: %w", i, err)
		}

		key := groupKey{
			userID: f.UserID,
			start:  BucketStart(f.Timestamp, width).Unix(),
		}
		if granularity == domain.GranularityDaily {
			key.market = f.Market
			key.ticker = f.Ticker
		}

		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{tickers: make(map[string]struct{})}
			groups[key] = acc
		}

		acc.totalAmount = acc.totalAmount.Add(f.Amount)
		acc.totalCount++
		acc.tickers[f.Ticker] = struct{}{}

		if apply, known := categoryApply[f.Category]; known {
			apply(acc, f)
		} else {
			a.UnknownCategories[f.Category]++
		}
	}

	buckets := make([]domain.AggregatedBucket, 0, len(groups))
	for key, acc := range groups {
		b := domain.AggregatedBucket{
			UserID: key.userID,
			Bucket: domain.TimeBucket{Start: time.Unix(key.start, 0).UTC(), Width: width},
			Market: key.market,
			Ticker: key.ticker,

			BuyAmount:   acc.buyAmount,
			SellAmount:  acc.sellAmount,
			TotalAmount: acc.totalAmount,

			BuyQuantity:  acc.buyQty,
			SellQuantity: acc.sellQty,

			BuyCount:   acc.buyCount,
			SellCount:  acc.sellCount,
			TotalCount: acc.totalCount,

			AvgBuyPrice:  average(acc.buyPriceSum, acc.buyCount),
			AvgSellPrice: average(acc.sellPriceSum, acc.sellCount),
		}
		if granularity == domain.GranularityIntraday {
			b.DistinctTickers = len(acc.tickers)
		}
		buckets = append(buckets, b)
	}

	sort.Slice(buckets, func(i, j int) bool {
		bi, bj := buckets[i], buckets[j]
		if bi.UserID != bj.UserID {
			return bi.UserID < bj.UserID
		}
		if !bi.Bucket.Start.Equal(bj.Bucket.Start) {
			return bi.Bucket.Start.Before(bj.Bucket.Start)
		}
		if bi.Market != bj.Market {
			return bi.Market < bj.Market
		}
		return bi.Ticker < bj.Ticker
	})

	return buckets, nil
}

// Warnings renders unknown-category counts as integrity warnings, sorted
// by category code for deterministic output.
func (a *Aggregator) Warnings() []string {
	if len(a.UnknownCategories) == 0 {
		return nil
	}

	codes := make([]int, 0, len(a.UnknownCategories))
	for c := range a.UnknownCategories {
		codes = append(codes, int(c))
	}
	sort.Ints(codes)

	warnings := make([]string, len(codes))
	for i, c := range codes {
		warnings[i] = fmt.Sprintf("unknown trade category %d on %d trade(s): counted in totals only",
			c, a.UnknownCategories[domain.TradeCategory(c)])
	}
	return warnings
}

// ValidateWidth checks that width is a whole number of hours dividing 24
// evenly (1, 2, 3, 4, 6, 8, 12 or 24).
func ValidateWidth(width time.Duration) error {
	if width <= 0 || width%time.Hour != 0 || (24*time.Hour)%width != 0 {
		return fmt.Errorf("%w: bucket width %s must be a whole number of hours dividing 24", domain.ErrInvalidInput, width)
	}
	return nil
}

// BucketStart floors ts onto the bucket boundary within its calendar day.
func BucketStart(ts time.Time, width time.Duration) time.Time {
	ts = ts.UTC()
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	widthHours := int(width / time.Hour)
	slot := ts.Hour() / widthHours * widthHours
	return day.Add(time.Duration(slot) * time.Hour)
}

func validateFact(f *domain.TradeFact) error {
	switch {
	case f == nil:
		return fmt.Errorf("%w: nil trade fact", domain.ErrInvalidInput)
	case f.UserID == "":
		return fmt.Errorf("%w: missing user id", domain.ErrInvalidInput)
	case f.Timestamp.IsZero():
		return fmt.Errorf("%w: missing timestamp", domain.ErrInvalidInput)
	case f.Amount.IsNegative():
		return fmt.Errorf("%w: negative amount %s", domain.ErrInvalidInput, f.Amount)
	case f.Quantity.IsNegative():
		return fmt.Errorf("%w: negative quantity %s", domain.ErrInvalidInput, f.Quantity)
	case f.Price.IsNegative():
		return fmt.Errorf("%w: negative price %s", domain.ErrInvalidInput, f.Price)
	}
	return nil
}

// average returns sum/count, or nil when count is zero. Never divides by
// zero and never yields NaN.
func average(sum decimal.Decimal, count int) *decimal.Decimal {
	if count == 0 {
		return nil
	}
	avg := sum.Div(decimal.NewFromInt(int64(count)))
	return &avg
}
