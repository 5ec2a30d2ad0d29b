package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/storage"
)

// AccessLogStore is an in-memory implementation of storage.AccessLogStore.
type AccessLogStore struct {
	mu    sync.RWMutex
	facts []*domain.AccessFact
	joins []*domain.JoinDate
}

// NewAccessLogStore creates a new in-memory access log store.
func NewAccessLogStore() *AccessLogStore {
	return &AccessLogStore{}
}

// Compile-time interface check.
var _ storage.AccessLogStore = (*AccessLogStore)(nil)

// SeedAccess adds access rows.
func (s *AccessLogStore) SeedAccess(facts ...*domain.AccessFact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range facts {
		cp := *f
		s.facts = append(s.facts, &cp)
	}
}

// SeedJoins adds membership-join rows.
func (s *AccessLogStore) SeedJoins(joins ...*domain.JoinDate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range joins {
		cp := *j
		s.joins = append(s.joins, &cp)
	}
}

// FetchAccess returns login rows with timestamp on or after checkpoint.
func (s *AccessLogStore) FetchAccess(_ context.Context, userIDs []string, checkpoint time.Time) ([]*domain.AccessFact, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("fetch access: %w: empty user list", domain.ErrInvalidInput)
	}

	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AccessFact
	for _, f := range s.facts {
		if _, ok := wanted[f.UserID]; !ok {
			continue
		}
		if f.OrderCategory != domain.OrderCategoryLogin {
			continue
		}
		if f.Timestamp.Before(checkpoint) {
			continue
		}
		cp := *f
		result = append(result, &cp)
	}
	return result, nil
}

// FetchJoinDates returns each user's earliest join timestamp.
func (s *AccessLogStore) FetchJoinDates(_ context.Context, userIDs []string) ([]*domain.JoinDate, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("fetch join dates: %w: empty user list", domain.ErrInvalidInput)
	}

	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	earliest := make(map[string]time.Time)
	for _, j := range s.joins {
		if _, ok := wanted[j.UserID]; !ok {
			continue
		}
		if cur, ok := earliest[j.UserID]; !ok || j.JoinedAt.Before(cur) {
			earliest[j.UserID] = j.JoinedAt
		}
	}

	var result []*domain.JoinDate
	for _, id := range userIDs {
		if at, ok := earliest[id]; ok {
			result = append(result, &domain.JoinDate{UserID: id, JoinedAt: at})
		}
	}
	return result, nil
}
