package aggregate

import (
	"testing"
	"time"

	"black-heatmap/internal/domain"
)

func makeAccess(userID, ip, device string) *domain.AccessFact {
	return &domain.AccessFact{
		UserID:        userID,
		IP:            ip,
		DeviceID:      device,
		OS:            "Windows 11",
		Browser:       "Chrome",
		UserAgent:     "Mozilla/5.0",
		OrderCategory: domain.OrderCategoryLogin,
		Timestamp:     time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestRollupAccess_DeduplicatesAndSorts(t *testing.T) {
	facts := []*domain.AccessFact{
		makeAccess("AXXA", "10.0.0.2", "dev-1"),
		makeAccess("AXXA", "10.0.0.1", "dev-1"),
		makeAccess("AXXA", "10.0.0.2", "dev-2"),
	}

	summaries := RollupAccess(facts)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	s := summaries[0]
	if s.IPs != "10.0.0.1, 10.0.0.2" {
		t.Errorf("expected sorted deduplicated IPs, got %q", s.IPs)
	}
	if s.DeviceIDs != "dev-1, dev-2" {
		t.Errorf("expected sorted deduplicated devices, got %q", s.DeviceIDs)
	}
	if s.EventCount != 3 {
		t.Errorf("expected event count 3, got %d", s.EventCount)
	}
}

func TestRollupAccess_SkipsEmptyValues(t *testing.T) {
	f := makeAccess("AXXA", "", "dev-1")
	f.OS = ""

	summaries := RollupAccess([]*domain.AccessFact{f})
	if summaries[0].IPs != "" {
		t.Errorf("expected empty IP set, got %q", summaries[0].IPs)
	}
	if summaries[0].OSes != "" {
		t.Errorf("expected empty OS set, got %q", summaries[0].OSes)
	}
	if summaries[0].DeviceIDs != "dev-1" {
		t.Errorf("expected device dev-1, got %q", summaries[0].DeviceIDs)
	}
}

func TestRollupAccess_OrderedByUser(t *testing.T) {
	facts := []*domain.AccessFact{
		makeAccess("AYYA", "10.0.0.1", "dev-1"),
		makeAccess("AXXA", "10.0.0.2", "dev-2"),
	}

	summaries := RollupAccess(facts)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].UserID != "AXXA" || summaries[1].UserID != "AYYA" {
		t.Errorf("expected user-ordered output, got %q, %q", summaries[0].UserID, summaries[1].UserID)
	}
}

func TestRollupAccess_Empty(t *testing.T) {
	if summaries := RollupAccess(nil); len(summaries) != 0 {
		t.Errorf("expected no summaries, got %d", len(summaries))
	}
}
