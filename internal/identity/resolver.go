// Package identity resolves watchlist MIDs into customer profiles:
// batched identity-source lookups, gender code resolution, address
// composition, contact-field decryption and member-id coalescing.
package identity

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/storage"
)

// defaultBatchSize caps the IN (...) arity per identity query.
const defaultBatchSize = 1000

// Decryptor turns an opaque ciphertext field into plaintext. It must be
// deterministic and side-effect free; tests inject a stub.
type Decryptor func(ciphertext string) (string, error)

// Resolver produces one Profile per distinct customer matching the
// watchlist filter.
type Resolver struct {
	store     storage.IdentityStore
	decrypt   Decryptor
	batchSize int
}

// NewResolver creates a Resolver over the given identity store.
func NewResolver(store storage.IdentityStore, decrypt Decryptor) *Resolver {
	return &Resolver{
		store:     store,
		decrypt:   decrypt,
		batchSize: defaultBatchSize,
	}
}

// WithBatchSize overrides the per-query MID batch size.
func (r *Resolver) WithBatchSize(n int) *Resolver {
	if n > 0 {
		r.batchSize = n
	}
	return r
}

// Resolve fetches and derives profiles for the given MIDs. Duplicate
// source rows collapse to one Profile per customer id (first row wins);
// output is ordered ascending by customer id. Zero matches is an empty
// result, not an error.
//
// The second return value lists the requested MIDs that matched at
// least one source row, in request order. A MID can match through a
// membership alias or through the KYC record's own member id, and the
// coalesced Profile.MemberID may carry a different alias than the one
// requested, so matched MIDs are tracked against the raw rows rather
// than derived from the profiles.
func (r *Resolver) Resolve(ctx context.Context, mids []string) ([]domain.Profile, []string, error) {
	if len(mids) == 0 {
		return nil, nil, fmt.Errorf("resolve: %w: empty mid list", domain.ErrInvalidInput)
	}
	for _, mid := range mids {
		if strings.TrimSpace(mid) == "" {
			return nil, nil, fmt.Errorf("resolve: %w: blank mid", domain.ErrInvalidInput)
		}
	}

	genders, err := r.store.GenderCodes(ctx)
	if err != nil {
		return nil, nil, err
	}

	var rows []*storage.CustomerRow
	for start := 0; start < len(mids); start += r.batchSize {
		end := start + r.batchSize
		if end > len(mids) {
			end = len(mids)
		}
		batch, err := r.store.FetchCustomers(ctx, mids[start:end])
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, batch...)
	}

	aliases := make(map[string]struct{}, 2*len(rows))
	for _, row := range rows {
		if row.MembershipMemberID != "" {
			aliases[row.MembershipMemberID] = struct{}{}
		}
		if row.KYCMemberID != "" {
			aliases[row.KYCMemberID] = struct{}{}
		}
	}
	matched := make([]string, 0, len(mids))
	for _, mid := range mids {
		if _, ok := aliases[mid]; ok {
			matched = append(matched, mid)
		}
	}

	seen := make(map[string]struct{}, len(rows))
	profiles := make([]domain.Profile, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.CustomerID]; dup {
			continue
		}
		seen[row.CustomerID] = struct{}{}

		p, err := r.derive(row, genders)
		if err != nil {
			return nil, nil, err
		}
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CustomerID < profiles[j].CustomerID
	})
	return profiles, matched, nil
}

// derive applies the field derivation rules to one source row.
func (r *Resolver) derive(row *storage.CustomerRow, genders map[string]string) (domain.Profile, error) {
	phone, err := r.decrypt(row.PhoneCipher)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("decrypt phone for customer %s: %w", row.CustomerID, err)
	}
	email, err := r.decrypt(row.EmailCipher)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("decrypt email for customer %s: %w", row.CustomerID, err)
	}

	memberID := row.MembershipMemberID
	if memberID == "" {
		memberID = row.KYCMemberID
	}

	return domain.Profile{
		CustomerID:     row.CustomerID,
		DisplayName:    row.DisplayName,
		Gender:         genders[row.GenderCode],
		BirthDate:      row.BirthDate,
		HighNetWorth:   row.HighNetWorth,
		HomeAddress:    ComposeAddress(row.HomeBaseAddress, row.HomeDetailAddress),
		WorkplaceName:  row.WorkplaceName,
		WorkAddress:    ComposeAddress(row.WorkBaseAddress, row.WorkDetailAddress),
		Phone:          phone,
		Email:          email,
		KYCCompletedAt: row.KYCCompletedAt,
		MemberID:       memberID,
	}, nil
}

// ComposeAddress joins a base address with an optional detail part. The
// separator appears only when the detail is present.
func ComposeAddress(base, detail string) string {
	if detail == "" {
		return base
	}
	return base + " " + detail
}

// Unmatched returns the requested MIDs absent from the matched set
// reported by Resolve, preserving request order. Unmatched MIDs are
// reported, never treated as an error.
func Unmatched(mids []string, matched []string) []string {
	found := make(map[string]struct{}, len(matched))
	for _, m := range matched {
		found[m] = struct{}{}
	}

	var missing []string
	for _, mid := range mids {
		if _, ok := found[mid]; !ok {
			missing = append(missing, mid)
		}
	}
	return missing
}
