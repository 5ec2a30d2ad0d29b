package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/storage"
	"black-heatmap/internal/storage/memory"
)

// seedFixtures populates the memory stores with demo data: one KYC row per
// watchlist MID, a spread of buy/sell trades across the first day of the
// window, and a few login rows. Contact fields are plaintext; the fixture
// path uses the plaintext decryptor.
func seedFixtures(identityStore *memory.IdentityStore, tradeStore *memory.TradeFactStore, accessStore *memory.AccessLogStore, mids []string, start time.Time) {
	identityStore.SeedGenderCodes(map[string]string{
		"01": "Male",
		"02": "Female",
	})

	markets := []string{"KOSPI", "KOSDAQ"}
	tickers := []string{"005930", "035720", "000660"}

	for i, mid := range mids {
		gender := "01"
		if i%2 == 1 {
			gender = "02"
		}
		identityStore.SeedCustomers(&storage.CustomerRow{
			CustomerID:         fmt.Sprintf("C%06d", i+1),
			DisplayName:        fmt.Sprintf("Demo Customer %d", i+1),
			GenderCode:         gender,
			BirthDate:          "1985-03-14",
			HighNetWorth:       i%3 == 0,
			HomeBaseAddress:    "12 Demo Street",
			HomeDetailAddress:  fmt.Sprintf("Apt %d", 100+i),
			WorkplaceName:      "Demo Corp",
			WorkBaseAddress:    "1 Office Plaza",
			PhoneCipher:        fmt.Sprintf("010-0000-%04d", i+1),
			EmailCipher:        fmt.Sprintf("demo%d@example.com", i+1),
			KYCCompletedAt:     start.AddDate(-1, 0, 0),
			MembershipMemberID: mid,
		})

		// Trades: a buy and a sell in the first bucket, plus a later buy,
		// so averages, totals and multi-bucket rows all show up.
		base := start.Add(time.Duration(i%4) * time.Hour)
		tradeStore.Seed(
			&domain.TradeFact{
				UserID:    mid,
				Timestamp: base.Add(10 * time.Minute),
				Category:  domain.TradeBuy,
				Amount:    decimal.NewFromInt(int64(1000 * (i + 1))),
				Quantity:  decimal.NewFromInt(int64(10 * (i + 1))),
				Price:     decimal.NewFromInt(100),
				Market:    markets[i%len(markets)],
				Ticker:    tickers[i%len(tickers)],
			},
			&domain.TradeFact{
				UserID:    mid,
				Timestamp: base.Add(45 * time.Minute),
				Category:  domain.TradeSell,
				Amount:    decimal.NewFromInt(int64(500 * (i + 1))),
				Quantity:  decimal.NewFromInt(int64(5 * (i + 1))),
				Price:     decimal.NewFromInt(100),
				Market:    markets[i%len(markets)],
				Ticker:    tickers[i%len(tickers)],
			},
			&domain.TradeFact{
				UserID:    mid,
				Timestamp: base.Add(9 * time.Hour),
				Category:  domain.TradeBuy,
				Amount:    decimal.NewFromInt(int64(250 * (i + 1))),
				Quantity:  decimal.NewFromInt(int64(2 * (i + 1))),
				Price:     decimal.NewFromInt(125),
				Market:    markets[(i+1)%len(markets)],
				Ticker:    tickers[(i+1)%len(tickers)],
			},
		)

		accessStore.SeedAccess(
			&domain.AccessFact{
				UserID:        mid,
				IP:            fmt.Sprintf("10.0.0.%d", i+1),
				DeviceID:      fmt.Sprintf("device-%d", i+1),
				OS:            "Windows 11",
				Browser:       "Chrome",
				UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
				OrderCategory: domain.OrderCategoryLogin,
				Timestamp:     base.Add(5 * time.Minute),
			},
			&domain.AccessFact{
				UserID:        mid,
				IP:            fmt.Sprintf("10.0.0.%d", i+1),
				DeviceID:      fmt.Sprintf("phone-%d", i+1),
				OS:            "Android 14",
				Browser:       "Mobile Safari",
				UserAgent:     "Mozilla/5.0 (Linux; Android 14)",
				OrderCategory: domain.OrderCategoryLogin,
				Timestamp:     base.Add(8 * time.Hour),
			},
		)
		accessStore.SeedJoins(&domain.JoinDate{
			UserID:   mid,
			JoinedAt: start.AddDate(-2, -i, 0),
		})
	}
}
