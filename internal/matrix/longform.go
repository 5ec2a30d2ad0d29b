package matrix

import (
	"github.com/shopspring/decimal"

	"black-heatmap/internal/domain"
)

// LongRow is one aggregated bucket in the long-form detail/timeline
// table: a straight projection plus a human-readable bucket label.
type LongRow struct {
	MID         string
	BucketStart string // label, e.g. "2024-01-01 04:00" or "2024-01-01"
	Market      string
	Ticker      string

	BuyAmount   decimal.Decimal
	SellAmount  decimal.Decimal
	TotalAmount decimal.Decimal

	BuyQuantity  decimal.Decimal
	SellQuantity decimal.Decimal

	BuyCount   int
	SellCount  int
	TotalCount int

	DistinctTickers int

	AvgBuyPrice  decimal.NullDecimal
	AvgSellPrice decimal.NullDecimal
}

// ToLongForm projects aggregated buckets one-to-one into long rows,
// preserving the aggregator's ordering.
func ToLongForm(buckets []domain.AggregatedBucket) []LongRow {
	rows := make([]LongRow, len(buckets))
	for i, b := range buckets {
		row := LongRow{
			MID:             b.UserID,
			BucketStart:     b.Bucket.Label(),
			Market:          b.Market,
			Ticker:          b.Ticker,
			BuyAmount:       b.BuyAmount,
			SellAmount:      b.SellAmount,
			TotalAmount:     b.TotalAmount,
			BuyQuantity:     b.BuyQuantity,
			SellQuantity:    b.SellQuantity,
			BuyCount:        b.BuyCount,
			SellCount:       b.SellCount,
			TotalCount:      b.TotalCount,
			DistinctTickers: b.DistinctTickers,
		}
		if b.AvgBuyPrice != nil {
			row.AvgBuyPrice = decimal.NullDecimal{Decimal: *b.AvgBuyPrice, Valid: true}
		}
		if b.AvgSellPrice != nil {
			row.AvgSellPrice = decimal.NullDecimal{Decimal: *b.AvgSellPrice, Valid: true}
		}
		rows[i] = row
	}
	return rows
}
