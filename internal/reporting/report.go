// Package reporting turns pipeline results into plain tabular artifacts:
// CSV exports and a markdown run report. No chart rendering or workbook
// styling happens here.
package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"black-heatmap/internal/domain"
)

// Report is the assembled run report.
type Report struct {
	RunID       string
	GeneratedAt time.Time

	WindowStart time.Time
	WindowEnd   time.Time
	BucketWidth time.Duration
	Metric      string

	ProfileCount  int
	TradeGroups   int
	Profiles      []domain.Profile
	UnmatchedMIDs []string

	Timeline []TimelineRow
	Ranking  []RankingRow

	IntegrityWarnings []string
}

// TimelineRow is one bucket in the cross-user activity timeline: summed
// amounts plus the number of distinct active users in that bucket.
type TimelineRow struct {
	BucketLabel string
	BuyTotal    decimal.Decimal
	SellTotal   decimal.Decimal
	Total       decimal.Decimal
	ActiveUsers int
}

// RankingRow is one user in the top-N trader ranking by total amount.
type RankingRow struct {
	MID        string
	BuyTotal   decimal.Decimal
	SellTotal  decimal.Decimal
	Total      decimal.Decimal
	TradeCount int
}
