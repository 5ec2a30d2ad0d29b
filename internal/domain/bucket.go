package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the temporal grouping mode.
type Granularity int

const (
	// GranularityIntraday groups trades into fixed-width sub-day buckets
	// keyed by (user, bucket).
	GranularityIntraday Granularity = iota

	// GranularityDaily groups trades into calendar days keyed additionally
	// by (market, ticker) for the per-instrument detail view.
	GranularityDaily
)

// TimeBucket is a half-open interval [Start, Start+Width).
type TimeBucket struct {
	Start time.Time
	Width time.Duration
}

// End returns the exclusive upper bound of the bucket.
func (b TimeBucket) End() time.Time {
	return b.Start.Add(b.Width)
}

// Contains reports whether t falls inside [Start, End).
func (b TimeBucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End())
}

// Label renders the bucket for table headers and the long-form view.
// Daily buckets show the date only.
func (b TimeBucket) Label() string {
	if b.Width == 24*time.Hour {
		return b.Start.Format("2006-01-02")
	}
	return b.Start.Format("2006-01-02 15:04")
}

// AggregatedBucket is one (user, bucket[, market, ticker]) group with its
// computed metrics. Market and Ticker are set only in daily-detail mode,
// and DistinctTickers only in intraday mode where the ticker is not part
// of the key.
type AggregatedBucket struct {
	UserID string
	Bucket TimeBucket
	Market string
	Ticker string

	BuyAmount   decimal.Decimal
	SellAmount  decimal.Decimal
	TotalAmount decimal.Decimal

	BuyQuantity  decimal.Decimal
	SellQuantity decimal.Decimal

	BuyCount   int
	SellCount  int
	TotalCount int

	DistinctTickers int

	// Averages are nil when the matching count is zero. They are never
	// coerced to zero: a zero average price is a real observation, an
	// absent one is not.
	AvgBuyPrice  *decimal.Decimal
	AvgSellPrice *decimal.Decimal
}
