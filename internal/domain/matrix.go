package domain

import "github.com/shopspring/decimal"

// Metric selects which AggregatedBucket value fills the heatmap cells.
type Metric string

const (
	MetricTotalAmount  Metric = "total_amount"
	MetricBuyAmount    Metric = "buy_amount"
	MetricSellAmount   Metric = "sell_amount"
	MetricTradeCount   Metric = "trade_count"
	MetricAvgBuyPrice  Metric = "avg_buy_price"
	MetricAvgSellPrice Metric = "avg_sell_price"
)

// Nullable reports whether absent cells keep a null value instead of the
// zero fill. Average prices stay null; rendering is the emitter's call.
func (m Metric) Nullable() bool {
	return m == MetricAvgBuyPrice || m == MetricAvgSellPrice
}

// Valid reports whether m is a known metric name.
func (m Metric) Valid() bool {
	switch m {
	case MetricTotalAmount, MetricBuyAmount, MetricSellAmount,
		MetricTradeCount, MetricAvgBuyPrice, MetricAvgSellPrice:
		return true
	}
	return false
}

// HeatmapMatrix is the dense MID × time-bucket grid. Every cell is
// populated: |MIDs| rows by |Columns| columns, zero-filled (or null for
// nullable metrics) where no aggregated data exists.
type HeatmapMatrix struct {
	Metric  Metric
	MIDs    []string
	Columns []TimeBucket

	// Cells[i][j] is the value for MIDs[i] in Columns[j].
	Cells [][]decimal.NullDecimal
}
