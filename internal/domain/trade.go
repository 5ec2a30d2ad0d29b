package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeCategory is the warehouse transaction category code.
type TradeCategory int

// Category codes as stored in the trade ledger. Any other value is an
// unknown category: it contributes to totals only and is reported as an
// integrity warning by the aggregator.
const (
	TradeBuy  TradeCategory = 1
	TradeSell TradeCategory = 2
)

// TradeFact is one raw trade-ledger row for a watchlist user.
type TradeFact struct {
	UserID    string
	Timestamp time.Time
	Category  TradeCategory
	Amount    decimal.Decimal // local currency (KRW)
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Market    string
	Ticker    string
}
