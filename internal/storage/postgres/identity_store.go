package postgres

import (
	"context"
	"fmt"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/query"
	"black-heatmap/internal/storage"
)

// IdentityStore implements storage.IdentityStore using PostgreSQL.
// Queries are loaded from the embedded template files and bound with
// literal substitution, matching the source-side IN (...) contract.
type IdentityStore struct {
	pool *Pool
}

// NewIdentityStore creates a new IdentityStore.
func NewIdentityStore(pool *Pool) *IdentityStore {
	return &IdentityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.IdentityStore = (*IdentityStore)(nil)

// FetchCustomers retrieves KYC rows left-joined to membership for the
// given MIDs, personal customers only, distinct, ordered by customer id.
func (s *IdentityStore) FetchCustomers(ctx context.Context, mids []string) ([]*storage.CustomerRow, error) {
	if len(mids) == 0 {
		return nil, fmt.Errorf("fetch customers: %w: empty mid list", domain.ErrInvalidInput)
	}

	tmpl, err := query.Postgres("black_mid_customer_info")
	if err != nil {
		return nil, err
	}
	sql, err := query.Bind(tmpl, map[string]any{"mid_list": mids})
	if err != nil {
		return nil, fmt.Errorf("bind customer query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w: %w", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var customers []*storage.CustomerRow
	for rows.Next() {
		var (
			c                storage.CustomerRow
			highNetWorth     string
			membershipMember *string
			homeDetail       *string
			workDetail       *string
		)
		err := rows.Scan(
			&c.CustomerID, &c.DisplayName, &c.GenderCode, &c.BirthDate,
			&highNetWorth,
			&c.HomeBaseAddress, &homeDetail,
			&c.WorkplaceName, &c.WorkBaseAddress, &workDetail,
			&c.PhoneCipher, &c.EmailCipher, &c.KYCCompletedAt,
			&membershipMember, &c.KYCMemberID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		c.HighNetWorth = highNetWorth == "Y"
		if homeDetail != nil {
			c.HomeDetailAddress = *homeDetail
		}
		if workDetail != nil {
			c.WorkDetailAddress = *workDetail
		}
		if membershipMember != nil {
			c.MembershipMemberID = *membershipMember
		}
		customers = append(customers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w: %w", domain.ErrSourceUnavailable, err)
	}

	return customers, nil
}

// GenderCodes returns the CUST_GNDR_CD code-to-name lookup table.
func (s *IdentityStore) GenderCodes(ctx context.Context) (map[string]string, error) {
	sql, err := query.Postgres("gender_codes")
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query gender codes: %w: %w", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	codes := make(map[string]string)
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("scan gender code row: %w", err)
		}
		codes[code] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gender code rows: %w: %w", domain.ErrSourceUnavailable, err)
	}

	return codes, nil
}
