package clickhouse

import (
	"context"
	"fmt"
	"time"

	"black-heatmap/internal/domain"
	"black-heatmap/internal/query"
	"black-heatmap/internal/storage"
)

// AccessLogStore implements storage.AccessLogStore using ClickHouse.
type AccessLogStore struct {
	conn *Conn
}

// NewAccessLogStore creates a new AccessLogStore.
func NewAccessLogStore(conn *Conn) *AccessLogStore {
	return &AccessLogStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AccessLogStore = (*AccessLogStore)(nil)

// FetchAccess retrieves login/session rows with order timestamp on or
// after checkpoint. The template itself pins order_category to LOGIN.
func (s *AccessLogStore) FetchAccess(ctx context.Context, userIDs []string, checkpoint time.Time) ([]*domain.AccessFact, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("fetch access: %w: empty user list", domain.ErrInvalidInput)
	}

	tmpl, err := query.Clickhouse("user_access_info")
	if err != nil {
		return nil, err
	}
	sql, err := query.Bind(tmpl, map[string]any{
		"user_ids":            userIDs,
		"checkpoint_datetime": checkpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("bind access query: %w", err)
	}

	rows, err := s.conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query access log: %w: %w", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var facts []*domain.AccessFact
	for rows.Next() {
		var f domain.AccessFact
		err := rows.Scan(
			&f.UserID, &f.IP, &f.DeviceID, &f.OS,
			&f.Browser, &f.UserAgent, &f.OrderCategory, &f.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan access row: %w", err)
		}
		facts = append(facts, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access rows: %w: %w", domain.ErrSourceUnavailable, err)
	}

	return facts, nil
}

// FetchJoinDates retrieves each user's first join timestamp.
func (s *AccessLogStore) FetchJoinDates(ctx context.Context, userIDs []string) ([]*domain.JoinDate, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("fetch join dates: %w: empty user list", domain.ErrInvalidInput)
	}

	tmpl, err := query.Clickhouse("user_join_date")
	if err != nil {
		return nil, err
	}
	sql, err := query.Bind(tmpl, map[string]any{"user_ids": userIDs})
	if err != nil {
		return nil, fmt.Errorf("bind join date query: %w", err)
	}

	rows, err := s.conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query join dates: %w: %w", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var joins []*domain.JoinDate
	for rows.Next() {
		var j domain.JoinDate
		if err := rows.Scan(&j.UserID, &j.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan join date row: %w", err)
		}
		joins = append(joins, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate join date rows: %w: %w", domain.ErrSourceUnavailable, err)
	}

	return joins, nil
}

// InsertAccess loads access rows in one batch. Fixture/test helper.
func (s *AccessLogStore) InsertAccess(ctx context.Context, facts []*domain.AccessFact) error {
	if len(facts) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO order_access_log (
			user_id, ip_addr, device_id, os, browser, user_agent, order_category, order_ts
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare access batch: %w", err)
	}

	for _, f := range facts {
		err = batch.Append(
			f.UserID, f.IP, f.DeviceID, f.OS,
			f.Browser, f.UserAgent, f.OrderCategory, f.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("append access to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send access batch: %w", err)
	}
	return nil
}

// InsertJoins loads membership-join rows in one batch. Fixture/test helper.
func (s *AccessLogStore) InsertJoins(ctx context.Context, joins []*domain.JoinDate) error {
	if len(joins) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO member_join (user_id, join_ts)`)
	if err != nil {
		return fmt.Errorf("prepare join batch: %w", err)
	}

	for _, j := range joins {
		if err := batch.Append(j.UserID, j.JoinedAt); err != nil {
			return fmt.Errorf("append join to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send join batch: %w", err)
	}
	return nil
}
