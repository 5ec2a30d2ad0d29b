package clickhouse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"black-heatmap/internal/domain"
)

func makeAccess(userID string, ts time.Time, category string) *domain.AccessFact {
	return &domain.AccessFact{
		UserID:        userID,
		IP:            "10.0.0.1",
		DeviceID:      "dev-1",
		OS:            "Windows 11",
		Browser:       "Chrome",
		UserAgent:     "Mozilla/5.0",
		OrderCategory: category,
		Timestamp:     ts,
	}
}

func TestAccessLogStore_FetchAccess(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccessLogStore(conn)

	checkpoint := windowStart
	err := store.InsertAccess(ctx, []*domain.AccessFact{
		makeAccess("AXXA", checkpoint.Add(-time.Hour), domain.OrderCategoryLogin), // before checkpoint
		makeAccess("AXXA", checkpoint, domain.OrderCategoryLogin),                 // at checkpoint, inclusive
		makeAccess("AXXA", checkpoint.Add(time.Hour), "ORDER"),                    // wrong category
		makeAccess("AYYA", checkpoint.Add(time.Hour), domain.OrderCategoryLogin),  // other user
	})
	require.NoError(t, err)

	facts, err := store.FetchAccess(ctx, []string{"AXXA"}, checkpoint)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	require.Equal(t, domain.OrderCategoryLogin, facts[0].OrderCategory)
	require.True(t, facts[0].Timestamp.Equal(checkpoint))
	require.Equal(t, "Chrome", facts[0].Browser)
}

func TestAccessLogStore_FetchJoinDates(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccessLogStore(conn)

	err := store.InsertJoins(ctx, []*domain.JoinDate{
		{UserID: "AXXA", JoinedAt: windowStart},
		{UserID: "AXXA", JoinedAt: windowStart.AddDate(-1, 0, 0)},
		{UserID: "AYYA", JoinedAt: windowStart},
	})
	require.NoError(t, err)

	joins, err := store.FetchJoinDates(ctx, []string{"AXXA"})
	require.NoError(t, err)
	require.Len(t, joins, 1)
	require.True(t, joins[0].JoinedAt.Equal(windowStart.AddDate(-1, 0, 0)), "earliest join wins")
}

func TestAccessLogStore_Validation(t *testing.T) {
	store := NewAccessLogStore(nil)
	ctx := context.Background()

	_, err := store.FetchAccess(ctx, nil, windowStart)
	require.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = store.FetchJoinDates(ctx, nil)
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}
