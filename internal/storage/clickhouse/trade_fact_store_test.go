package clickhouse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"black-heatmap/internal/domain"
)

var (
	windowStart = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	windowEnd   = windowStart.AddDate(0, 0, 1)
)

func makeTrade(userID string, ts time.Time, cat domain.TradeCategory, amount int64) *domain.TradeFact {
	return &domain.TradeFact{
		UserID:    userID,
		Timestamp: ts,
		Category:  cat,
		Amount:    decimal.NewFromInt(amount),
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(100),
		Market:    "KOSPI",
		Ticker:    "005930",
	}
}

func TestTradeFactStore_RoundTrip(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTradeFactStore(conn)

	err := store.InsertTrades(ctx, []*domain.TradeFact{
		makeTrade("AXXA", windowStart.Add(time.Hour), domain.TradeBuy, 100),
		makeTrade("AXXA", windowStart.Add(2*time.Hour), domain.TradeSell, 50),
		makeTrade("AYYA", windowStart.Add(time.Hour), domain.TradeBuy, 30),
	})
	require.NoError(t, err)

	facts, err := store.FetchTrades(ctx, []string{"AXXA"}, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, facts, 2)

	require.Equal(t, "AXXA", facts[0].UserID)
	require.Equal(t, domain.TradeBuy, facts[0].Category)
	require.True(t, facts[0].Amount.Equal(decimal.NewFromInt(100)), "amount %s", facts[0].Amount)
	require.Equal(t, "KOSPI", facts[0].Market)
	require.Equal(t, "005930", facts[0].Ticker)
}

func TestTradeFactStore_WindowIsHalfOpen(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTradeFactStore(conn)

	err := store.InsertTrades(ctx, []*domain.TradeFact{
		makeTrade("AXXA", windowStart.Add(-time.Second), domain.TradeBuy, 1),
		makeTrade("AXXA", windowStart, domain.TradeBuy, 2),
		makeTrade("AXXA", windowEnd.Add(-time.Second), domain.TradeBuy, 3),
		makeTrade("AXXA", windowEnd, domain.TradeBuy, 4),
	})
	require.NoError(t, err)

	facts, err := store.FetchTrades(ctx, []string{"AXXA"}, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, facts, 2, "start inclusive, end exclusive")
}

func TestTradeFactStore_EmptyResultIsValid(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeFactStore(conn)
	facts, err := store.FetchTrades(context.Background(), []string{"ANOPEA"}, windowStart, windowEnd)
	require.NoError(t, err)
	require.Empty(t, facts)
}

func TestTradeFactStore_FailureKeepsCauseInChain(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewTradeFactStore(conn)
	_, err := store.FetchTrades(ctx, []string{"AXXA"}, windowStart, windowEnd)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrSourceUnavailable), "sentinel lost: %v", err)
	require.True(t, errors.Is(err, context.Canceled), "driver cause lost: %v", err)
}

func TestTradeFactStore_Validation(t *testing.T) {
	store := NewTradeFactStore(nil)
	ctx := context.Background()

	_, err := store.FetchTrades(ctx, nil, windowStart, windowEnd)
	require.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = store.FetchTrades(ctx, []string{"AXXA"}, windowEnd, windowStart)
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}
