package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/storage"
)

// TradeFactStore is an in-memory implementation of storage.TradeFactStore.
// Rows come back in insertion order, matching the source-native-order
// contract of the real store.
type TradeFactStore struct {
	mu    sync.RWMutex
	facts []*domain.TradeFact
}

// NewTradeFactStore creates a new in-memory trade fact store.
func NewTradeFactStore() *TradeFactStore {
	return &TradeFactStore{}
}

// Compile-time interface check.
var _ storage.TradeFactStore = (*TradeFactStore)(nil)

// Seed adds trade rows.
func (s *TradeFactStore) Seed(facts ...*domain.TradeFact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range facts {
		cp := *f
		s.facts = append(s.facts, &cp)
	}
}

// FetchTrades returns rows for the users within [start, end).
func (s *TradeFactStore) FetchTrades(_ context.Context, userIDs []string, start, end time.Time) ([]*domain.TradeFact, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("fetch trades: %w: empty user list", domain.ErrInvalidInput)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("fetch trades: %w: start not before end", domain.ErrInvalidInput)
	}

	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeFact
	for _, f := range s.facts {
		if _, ok := wanted[f.UserID]; !ok {
			continue
		}
		if f.Timestamp.Before(start) || !f.Timestamp.Before(end) {
			continue
		}
		cp := *f
		result = append(result, &cp)
	}
	return result, nil
}
