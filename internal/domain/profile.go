package domain

import "time"

// Profile is one resolved watchlist customer from the identity source.
// Phone and email are already decrypted; the raw gender code is never
// carried past the resolver.
type Profile struct {
	CustomerID     string
	DisplayName    string
	Gender         string // resolved via CUST_GNDR_CD lookup
	BirthDate      string // YYYY-MM-DD as stored
	HighNetWorth   bool
	HomeAddress    string
	WorkplaceName  string
	WorkAddress    string
	Phone          string
	Email          string
	KYCCompletedAt time.Time

	// MemberID is the membership-table value when present, otherwise the
	// member id stored on the KYC record itself.
	MemberID string
}

// JoinDate is a user's first membership-join timestamp from the warehouse.
type JoinDate struct {
	UserID   string
	JoinedAt time.Time
}
