package query

import (
	"strings"
	"testing"
	"time"
)

func TestBind_StringList(t *testing.T) {
	got, err := Bind("WHERE member_id IN (:mid_list)", map[string]any{
		"mid_list": []string{"AXXA", "AYYA"},
	})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	want := "WHERE member_id IN ('AXXA', 'AYYA')"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBind_RepeatedPlaceholder(t *testing.T) {
	got, err := Bind("(m.id IN (:mid_list) OR c.id IN (:mid_list))", map[string]any{
		"mid_list": []string{"AXXA"},
	})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if strings.Count(got, "'AXXA'") != 2 {
		t.Errorf("expected both occurrences substituted, got %q", got)
	}
}

func TestBind_Timestamp(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	got, err := Bind("WHERE ts >= :start_time", map[string]any{"start_time": ts})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if got != "WHERE ts >= '2024-01-15 09:30:00'" {
		t.Errorf("unexpected timestamp literal: %q", got)
	}
}

func TestBind_PrefixNamesStayDistinct(t *testing.T) {
	got, err := Bind("SELECT :user, :user_ids", map[string]any{
		"user":     "u1",
		"user_ids": []string{"u2", "u3"},
	})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if got != "SELECT 'u1', 'u2', 'u3'" {
		t.Errorf("prefix placeholder clobbered the longer one: %q", got)
	}
}

func TestBind_ColonInValueIsData(t *testing.T) {
	got, err := Bind("WHERE user_agent = :agent", map[string]any{
		"agent": "Mozilla/5.0 (compatible; :gecko)",
	})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if got != "WHERE user_agent = 'Mozilla/5.0 (compatible; :gecko)'" {
		t.Errorf("colon token inside a bound value was mangled: %q", got)
	}
}

func TestBind_QuotesEscaped(t *testing.T) {
	got, err := Bind(":name", map[string]any{"name": "O'Neil"})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if got != "'O''Neil'" {
		t.Errorf("expected doubled quote, got %q", got)
	}
}

func TestBind_UnresolvedPlaceholderFails(t *testing.T) {
	if _, err := Bind("WHERE id = :customer_id", nil); err == nil {
		t.Error("expected error for unresolved placeholder")
	}
}

func TestBind_EmptyListFails(t *testing.T) {
	if _, err := Bind("IN (:ids)", map[string]any{"ids": []string{}}); err == nil {
		t.Error("expected error for empty list parameter")
	}
}

func TestBind_UnsupportedTypeFails(t *testing.T) {
	if _, err := Bind(":n", map[string]any{"n": 42}); err == nil {
		t.Error("expected error for unsupported parameter type")
	}
}

func TestLoadEmbeddedQueries(t *testing.T) {
	for _, name := range []string{"black_mid_customer_info", "gender_codes"} {
		q, err := Postgres(name)
		if err != nil {
			t.Fatalf("Postgres(%q) failed: %v", name, err)
		}
		if !strings.Contains(strings.ToUpper(q), "SELECT") {
			t.Errorf("query %q does not look like SQL", name)
		}
	}
	for _, name := range []string{"user_trades", "user_access_info", "user_join_date"} {
		q, err := Clickhouse(name)
		if err != nil {
			t.Fatalf("Clickhouse(%q) failed: %v", name, err)
		}
		if !strings.Contains(strings.ToUpper(q), "SELECT") {
			t.Errorf("query %q does not look like SQL", name)
		}
	}
	if _, err := Postgres("missing_query"); err == nil {
		t.Error("expected error for unknown query name")
	}
}
