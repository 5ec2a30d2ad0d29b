package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the run report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Watchlist Heatmap Report\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Run Parameters
	sb.WriteString("## Run Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Window Start | %s |\n", r.WindowStart.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| Window End | %s |\n", r.WindowEnd.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| Bucket Width | %s |\n", r.BucketWidth))
	sb.WriteString(fmt.Sprintf("| Heatmap Metric | %s |\n", r.Metric))
	sb.WriteString(fmt.Sprintf("| Resolved Profiles | %d |\n", r.ProfileCount))
	sb.WriteString(fmt.Sprintf("| Trade Groups | %d |\n", r.TradeGroups))
	sb.WriteString("\n")

	// Resolved Profiles
	if len(r.Profiles) > 0 {
		sb.WriteString("## Profiles\n\n")
		sb.WriteString("| MID | Customer | Name | Gender | High Net Worth |\n")
		sb.WriteString("|-----|----------|------|--------|----------------|\n")
		for _, p := range r.Profiles {
			flag := "N"
			if p.HighNetWorth {
				flag = "Y"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				p.MemberID, p.CustomerID, p.DisplayName, p.Gender, flag))
		}
		sb.WriteString("\n")
	}

	// Unmatched watchlist entries
	if len(r.UnmatchedMIDs) > 0 {
		sb.WriteString("## Unmatched MIDs\n\n")
		for _, mid := range r.UnmatchedMIDs {
			sb.WriteString(fmt.Sprintf("- %s\n", mid))
		}
		sb.WriteString("\n")
	}

	// Activity Timeline
	sb.WriteString("## Activity Timeline\n\n")
	if len(r.Timeline) > 0 {
		sb.WriteString("| Bucket | Buy | Sell | Total | Active Users |\n")
		sb.WriteString("|--------|-----|------|-------|--------------|\n")
		for _, row := range r.Timeline {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d |\n",
				row.BucketLabel, row.BuyTotal, row.SellTotal, row.Total, row.ActiveUsers))
		}
	} else {
		sb.WriteString("No trade activity in the window.\n")
	}
	sb.WriteString("\n")

	// Top Traders
	sb.WriteString("## Top Traders\n\n")
	if len(r.Ranking) > 0 {
		sb.WriteString("| MID | Buy | Sell | Total | Trades |\n")
		sb.WriteString("|-----|-----|------|-------|--------|\n")
		for _, row := range r.Ranking {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d |\n",
				row.MID, row.BuyTotal, row.SellTotal, row.Total, row.TradeCount))
		}
	} else {
		sb.WriteString("No traders ranked.\n")
	}
	sb.WriteString("\n")

	// Integrity warnings (shown only when present)
	if len(r.IntegrityWarnings) > 0 {
		sb.WriteString("## Integrity Warnings\n\n")
		for _, w := range r.IntegrityWarnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
