package reporting

import (
	"sort"
	"time"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/pipeline"
)

// Generator produces reports from pipeline results.
type Generator struct {
	topN int
	now  func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a report generator. topN caps the trader ranking.
func NewGenerator(topN int) *Generator {
	if topN <= 0 {
		topN = 20
	}
	return &Generator{
		topN: topN,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate assembles the run report from a pipeline result.
func (g *Generator) Generate(result *pipeline.Result) *Report {
	return &Report{
		RunID:             result.RunID,
		GeneratedAt:       g.now(),
		WindowStart:       result.Params.Start,
		WindowEnd:         result.Params.End,
		BucketWidth:       result.Params.BucketWidth,
		Metric:            string(result.Params.Metric),
		ProfileCount:      len(result.Profiles),
		TradeGroups:       len(result.Widthed),
		Profiles:          result.Profiles,
		UnmatchedMIDs:     result.UnmatchedMIDs,
		Timeline:          g.generateTimeline(result.Widthed),
		Ranking:           g.generateRanking(result.Widthed),
		IntegrityWarnings: result.IntegrityWarnings,
	}
}

// generateTimeline sums activity per bucket across all users and counts
// distinct active users, ordered by bucket start.
func (g *Generator) generateTimeline(buckets []domain.AggregatedBucket) []TimelineRow {
	type slot struct {
		start time.Time
		row   TimelineRow
		users map[string]struct{}
	}

	slots := make(map[int64]*slot)
	for _, b := range buckets {
		key := b.Bucket.Start.Unix()
		s, ok := slots[key]
		if !ok {
			s = &slot{
				start: b.Bucket.Start,
				row:   TimelineRow{BucketLabel: b.Bucket.Label()},
				users: make(map[string]struct{}),
			}
			slots[key] = s
		}
		s.row.BuyTotal = s.row.BuyTotal.Add(b.BuyAmount)
		s.row.SellTotal = s.row.SellTotal.Add(b.SellAmount)
		s.row.Total = s.row.Total.Add(b.TotalAmount)
		s.users[b.UserID] = struct{}{}
	}

	ordered := make([]*slot, 0, len(slots))
	for _, s := range slots {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start.Before(ordered[j].start) })

	rows := make([]TimelineRow, len(ordered))
	for i, s := range ordered {
		s.row.ActiveUsers = len(s.users)
		rows[i] = s.row
	}
	return rows
}

// generateRanking sums per-user activity and keeps the top N by total
// amount, ties broken by MID for deterministic output.
func (g *Generator) generateRanking(buckets []domain.AggregatedBucket) []RankingRow {
	byUser := make(map[string]*RankingRow)
	for _, b := range buckets {
		r, ok := byUser[b.UserID]
		if !ok {
			r = &RankingRow{MID: b.UserID}
			byUser[b.UserID] = r
		}
		r.BuyTotal = r.BuyTotal.Add(b.BuyAmount)
		r.SellTotal = r.SellTotal.Add(b.SellAmount)
		r.Total = r.Total.Add(b.TotalAmount)
		r.TradeCount += b.TotalCount
	}

	rows := make([]RankingRow, 0, len(byUser))
	for _, r := range byUser {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].MID < rows[j].MID
	})

	if len(rows) > g.topN {
		rows = rows[:g.topN]
	}
	return rows
}
