// Package storage defines the capability interfaces the pipeline depends
// on. Concrete adapters (postgres, clickhouse, memory) are swappable
// without touching resolution or aggregation logic.
package storage

import (
	"context"
	"time"

	"black-heatmap/internal/domain"
)

// CustomerRow is a raw identity-source row before resolver derivation:
// ciphertext contact fields, the raw gender code, split address parts and
// both member-id candidates.
type CustomerRow struct {
	CustomerID        string
	DisplayName       string
	GenderCode        string
	BirthDate         string
	HighNetWorth      bool
	HomeBaseAddress   string
	HomeDetailAddress string
	WorkplaceName     string
	WorkBaseAddress   string
	WorkDetailAddress string
	PhoneCipher       string
	EmailCipher       string
	KYCCompletedAt    time.Time

	// MembershipMemberID comes from the membership table and may be empty;
	// KYCMemberID is the fallback stored on the KYC record.
	MembershipMemberID string
	KYCMemberID        string
}

// IdentityStore provides access to the relational identity source.
type IdentityStore interface {
	// FetchCustomers retrieves KYC rows left-joined to membership for the
	// given MIDs, personal customers only, distinct, ordered by customer id.
	// A MID that matches nothing simply yields no row.
	FetchCustomers(ctx context.Context, mids []string) ([]*CustomerRow, error)

	// GenderCodes returns the CUST_GNDR_CD code-to-name lookup table.
	GenderCodes(ctx context.Context) (map[string]string, error)
}

// TradeFactStore provides access to the warehouse trade ledger.
type TradeFactStore interface {
	// FetchTrades retrieves raw trade rows for the users within the
	// half-open window [start, end), in source-native order.
	FetchTrades(ctx context.Context, userIDs []string, start, end time.Time) ([]*domain.TradeFact, error)
}

// AccessLogStore provides access to the warehouse session/membership logs.
type AccessLogStore interface {
	// FetchAccess retrieves login/session rows with order timestamp on or
	// after checkpoint (inclusive lower bound).
	FetchAccess(ctx context.Context, userIDs []string, checkpoint time.Time) ([]*domain.AccessFact, error)

	// FetchJoinDates retrieves each user's first join timestamp, one row
	// per user that has one.
	FetchJoinDates(ctx context.Context, userIDs []string) ([]*domain.JoinDate, error)
}
