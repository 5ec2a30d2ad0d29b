package domain

import "time"

// OrderCategoryLogin marks login/session rows in the order access log.
const OrderCategoryLogin = "LOGIN"

// AccessFact is one raw session-access row for a watchlist user.
type AccessFact struct {
	UserID        string
	IP            string
	DeviceID      string
	OS            string
	Browser       string
	UserAgent     string
	OrderCategory string
	Timestamp     time.Time
}

// AccessSummary is the per-user rollup of access facts: each attribute is
// the deduplicated set of observed values joined with ", ".
type AccessSummary struct {
	UserID     string
	IPs        string
	DeviceIDs  string
	OSes       string
	Browsers   string
	UserAgents string
	EventCount int
}
