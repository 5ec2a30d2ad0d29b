package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/matrix"
	"black-heatmap/internal/pipeline"
	"black-heatmap/internal/reporting"
)

func makeRunResult() *pipeline.Result {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	hourly := domain.AggregatedBucket{
		UserID:      "AXXA",
		Bucket:      domain.TimeBucket{Start: start.Add(9 * time.Hour), Width: time.Hour},
		BuyAmount:   decimal.NewFromInt(100),
		TotalAmount: decimal.NewFromInt(100),
		BuyCount:    1,
		TotalCount:  1,
	}
	daily := domain.AggregatedBucket{
		UserID:      "AXXA",
		Bucket:      domain.TimeBucket{Start: start, Width: 24 * time.Hour},
		Market:      "KOSPI",
		Ticker:      "005930",
		BuyAmount:   decimal.NewFromInt(100),
		TotalAmount: decimal.NewFromInt(100),
		BuyCount:    1,
		TotalCount:  1,
	}
	widthed := hourly
	widthed.Bucket = domain.TimeBucket{Start: start.Add(8 * time.Hour), Width: 4 * time.Hour}

	return &pipeline.Result{
		RunID:       "run-456",
		GeneratedAt: start,
		Params: pipeline.Params{
			MIDs:        []string{"AXXA"},
			Start:       start,
			End:         start.Add(24 * time.Hour),
			Checkpoint:  start,
			BucketWidth: 4 * time.Hour,
			Metric:      domain.MetricTotalAmount,
		},
		Profiles:    []domain.Profile{{CustomerID: "C000001", MemberID: "AXXA"}},
		JoinDates:   []domain.JoinDate{{UserID: "AXXA", JoinedAt: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)}},
		Hourly:      []domain.AggregatedBucket{hourly},
		Widthed:     []domain.AggregatedBucket{widthed},
		DailyDetail: []domain.AggregatedBucket{daily},
		LongForm:    matrix.ToLongForm([]domain.AggregatedBucket{widthed}),
		Heatmap: &domain.HeatmapMatrix{
			Metric:  domain.MetricTotalAmount,
			MIDs:    []string{"AXXA"},
			Columns: []domain.TimeBucket{{Start: start, Width: 4 * time.Hour}},
			Cells:   [][]decimal.NullDecimal{{{Decimal: decimal.NewFromInt(100), Valid: true}}},
		},
	}
}

func TestWriteOutputs_EmitsEveryArtifact(t *testing.T) {
	dir := t.TempDir()
	result := makeRunResult()
	report := reporting.NewGenerator(5).Generate(result)

	if err := writeOutputs(dir, result, report); err != nil {
		t.Fatalf("writeOutputs failed: %v", err)
	}

	for _, name := range outputFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestWriteOutputs_SupplementaryTables(t *testing.T) {
	dir := t.TempDir()
	result := makeRunResult()
	report := reporting.NewGenerator(5).Generate(result)

	if err := writeOutputs(dir, result, report); err != nil {
		t.Fatalf("writeOutputs failed: %v", err)
	}

	read := func(name string) string {
		t.Helper()
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(b)
	}

	if got := read("hourly_summary.csv"); !strings.Contains(got, "AXXA,2024-01-15 09:00") {
		t.Errorf("hourly summary missing the 1h bucket row:\n%s", got)
	}
	if got := read("daily_detail.csv"); !strings.Contains(got, "AXXA,2024-01-15,KOSPI,005930") {
		t.Errorf("daily detail missing the per-instrument row:\n%s", got)
	}
	if got := read("join_dates.csv"); !strings.Contains(got, "AXXA,2022-03-01 00:00:00") {
		t.Errorf("join dates missing the membership row:\n%s", got)
	}
}
