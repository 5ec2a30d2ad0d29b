// Package memory provides in-memory store implementations for tests and
// fixture-mode runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/storage"
)

// IdentityStore is an in-memory implementation of storage.IdentityStore.
type IdentityStore struct {
	mu        sync.RWMutex
	customers []*storage.CustomerRow
	genders   map[string]string
}

// NewIdentityStore creates a new in-memory identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		genders: make(map[string]string),
	}
}

// Compile-time interface check.
var _ storage.IdentityStore = (*IdentityStore)(nil)

// SeedCustomers adds raw customer rows.
func (s *IdentityStore) SeedCustomers(rows ...*storage.CustomerRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		cp := *r
		s.customers = append(s.customers, &cp)
	}
}

// SeedGenderCodes sets the CUST_GNDR_CD lookup table.
func (s *IdentityStore) SeedGenderCodes(codes map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, name := range codes {
		s.genders[code] = name
	}
}

// FetchCustomers returns rows whose membership or KYC member id is in
// mids, distinct by (customer, member ids), ordered by customer id.
func (s *IdentityStore) FetchCustomers(_ context.Context, mids []string) ([]*storage.CustomerRow, error) {
	if len(mids) == 0 {
		return nil, fmt.Errorf("fetch customers: %w: empty mid list", domain.ErrInvalidInput)
	}

	wanted := make(map[string]struct{}, len(mids))
	for _, mid := range mids {
		wanted[mid] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.CustomerRow
	for _, r := range s.customers {
		_, byMembership := wanted[r.MembershipMemberID]
		_, byKYC := wanted[r.KYCMemberID]
		if byMembership || byKYC {
			cp := *r
			result = append(result, &cp)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CustomerID < result[j].CustomerID
	})
	return result, nil
}

// GenderCodes returns a copy of the lookup table.
func (s *IdentityStore) GenderCodes(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make(map[string]string, len(s.genders))
	for code, name := range s.genders {
		codes[code] = name
	}
	return codes, nil
}
