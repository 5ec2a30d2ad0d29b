package clickhouse

import (
	"context"
	"fmt"
	"time"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/query"
	"black-heatmap/internal/storage"
)

// TradeFactStore implements storage.TradeFactStore using ClickHouse.
type TradeFactStore struct {
	conn *Conn
}

// NewTradeFactStore creates a new TradeFactStore.
func NewTradeFactStore(conn *Conn) *TradeFactStore {
	return &TradeFactStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeFactStore = (*TradeFactStore)(nil)

// FetchTrades retrieves raw trade rows for the users within [start, end),
// in source-native order. An empty result is valid.
func (s *TradeFactStore) FetchTrades(ctx context.Context, userIDs []string, start, end time.Time) ([]*domain.TradeFact, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("fetch trades: %w: empty user list", domain.ErrInvalidInput)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("fetch trades: %w: start %s not before end %s",
			domain.ErrInvalidInput, start.Format(query.TimestampLayout), end.Format(query.TimestampLayout))
	}

	tmpl, err := query.Clickhouse("user_trades")
	if err != nil {
		return nil, err
	}
	sql, err := query.Bind(tmpl, map[string]any{
		"user_ids":   userIDs,
		"start_time": start,
		"end_time":   end,
	})
	if err != nil {
		return nil, fmt.Errorf("bind trade query: %w", err)
	}

	rows, err := s.conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w: %w", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var facts []*domain.TradeFact
	for rows.Next() {
		var (
			f        domain.TradeFact
			category int32
		)
		err := rows.Scan(
			&f.UserID, &f.Timestamp, &category,
			&f.Amount, &f.Quantity, &f.Price,
			&f.Market, &f.Ticker,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		f.Category = domain.TradeCategory(category)
		facts = append(facts, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w: %w", domain.ErrSourceUnavailable, err)
	}

	return facts, nil
}

// InsertTrades loads trade rows into the ledger in one batch. Used by
// fixture loading and tests; the pipeline itself only reads.
func (s *TradeFactStore) InsertTrades(ctx context.Context, facts []*domain.TradeFact) error {
	if len(facts) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_ledger (
			user_id, trade_ts, trade_category, trade_amount_krw, trade_qty, trade_price, market_nm, ticker_nm
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare trade batch: %w", err)
	}

	for _, f := range facts {
		err = batch.Append(
			f.UserID, f.Timestamp, int32(f.Category),
			f.Amount, f.Quantity, f.Price,
			f.Market, f.Ticker,
		)
		if err != nil {
			return fmt.Errorf("append trade to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send trade batch: %w", err)
	}
	return nil
}
