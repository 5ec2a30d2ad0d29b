package reporting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/matrix"
)

// ProfilesCSV renders resolved profiles as CSV.
func ProfilesCSV(profiles []domain.Profile) string {
	var sb strings.Builder
	sb.WriteString("customer_id,name,gender,birth_date,high_net_worth,home_address,workplace,work_address,phone,email,kyc_completed_at,mid\n")

	for _, p := range profiles {
		flag := "N"
		if p.HighNetWorth {
			flag = "Y"
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			field(p.CustomerID), field(p.DisplayName), field(p.Gender), field(p.BirthDate),
			flag,
			field(p.HomeAddress), field(p.WorkplaceName), field(p.WorkAddress),
			field(p.Phone), field(p.Email),
			p.KYCCompletedAt.Format("2006-01-02 15:04:05"),
			field(p.MemberID),
		))
	}
	return sb.String()
}

// LongFormCSV renders the long-form aggregated table as CSV. Null
// averages render as empty fields, never as 0.
func LongFormCSV(rows []matrix.LongRow) string {
	var sb strings.Builder
	sb.WriteString("mid,bucket_start,market,ticker,buy_amount,sell_amount,total_amount,")
	sb.WriteString("buy_qty,sell_qty,buy_count,sell_count,total_count,distinct_tickers,avg_buy_price,avg_sell_price\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%d,%d,%d,%d,%s,%s\n",
			field(r.MID), r.BucketStart, field(r.Market), field(r.Ticker),
			r.BuyAmount, r.SellAmount, r.TotalAmount,
			r.BuyQuantity, r.SellQuantity,
			r.BuyCount, r.SellCount, r.TotalCount,
			r.DistinctTickers,
			nullable(r.AvgBuyPrice), nullable(r.AvgSellPrice),
		))
	}
	return sb.String()
}

// MatrixCSV renders the dense heatmap grid: one row per MID, one column
// per bucket, every cell populated.
func MatrixCSV(m *domain.HeatmapMatrix) string {
	var sb strings.Builder

	sb.WriteString("mid")
	for _, col := range m.Columns {
		sb.WriteString(",")
		sb.WriteString(col.Label())
	}
	sb.WriteString("\n")

	for i, mid := range m.MIDs {
		sb.WriteString(field(mid))
		for j := range m.Columns {
			sb.WriteString(",")
			sb.WriteString(nullable(m.Cells[i][j]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// AccessCSV renders per-user access summaries as CSV.
func AccessCSV(summaries []domain.AccessSummary) string {
	var sb strings.Builder
	sb.WriteString("mid,ips,device_ids,oses,browsers,user_agents,event_count\n")

	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%d\n",
			field(s.UserID), field(s.IPs), field(s.DeviceIDs),
			field(s.OSes), field(s.Browsers), field(s.UserAgents),
			s.EventCount,
		))
	}
	return sb.String()
}

// JoinDatesCSV renders per-user membership join dates as CSV.
func JoinDatesCSV(dates []domain.JoinDate) string {
	var sb strings.Builder
	sb.WriteString("mid,joined_at\n")

	for _, d := range dates {
		sb.WriteString(fmt.Sprintf("%s,%s\n",
			field(d.UserID), d.JoinedAt.Format("2006-01-02 15:04:05"),
		))
	}
	return sb.String()
}

// nullable renders a NullDecimal, empty when invalid.
func nullable(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// field quotes a CSV field when it contains a delimiter or quote.
func field(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
