package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/report"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStatsRepo struct {
	stats    *report.DashboardStats
	err      error
	lastFrom time.Time
	lastTo   time.Time
}

func (r *stubStatsRepo) Stats(_ context.Context, from, to time.Time) (*report.DashboardStats, error) {
	r.lastFrom, r.lastTo = from, to
	if r.err != nil {
		return nil, r.err
	}
	return r.stats, nil
}

type stubSweeper struct {
	calls int
	err   error
}

func (s *stubSweeper) SweepOverdue(_ context.Context) (int64, error) {
	s.calls++
	return 0, s.err
}

type stubNoticeRepo struct {
	entries    []notification.Notification
	lastFilter shared.Filter
}

func (r *stubNoticeRepo) FindByID(_ context.Context, _ uuid.UUID) (*notification.Notification, error) {
	return nil, shared.ErrNotFound
}

func (r *stubNoticeRepo) FindAll(_ context.Context, filter shared.Filter) ([]notification.Notification, error) {
	r.lastFilter = filter
	return r.entries, nil
}

func (r *stubNoticeRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *stubNoticeRepo) CountUnread(_ context.Context) (int64, error) { return 0, nil }

func (r *stubNoticeRepo) Save(_ context.Context, n *notification.Notification) error {
	r.entries = append(r.entries, *n)
	return nil
}

func (r *stubNoticeRepo) MarkAllRead(_ context.Context) error { return nil }

func TestDashboardService_Get(t *testing.T) {
	repo := &stubStatsRepo{stats: &report.DashboardStats{
		TotalBorrowers:   12,
		ActiveBorrowers:  10,
		ActiveLoans:      7,
		OverdueLoans:     2,
		ClosedLoans:      3,
		TotalOutstanding: decimal.RequireFromString("125000.5"),
		PrincipalAtRisk:  decimal.RequireFromString("30000"),
		CollectedInRange: decimal.RequireFromString("8200"),
		PenaltiesInRange: decimal.RequireFromString("150"),
	}}
	sweeper := &stubSweeper{}
	notices := &stubNoticeRepo{}
	entry, err := notification.New("Late fee charged", "details", notification.TypePenalty)
	require.NoError(t, err)
	require.NoError(t, notices.Save(context.Background(), entry))
	svc := NewDashboardService(repo, sweeper, notices, zap.NewNop())

	now := time.Date(2026, 3, 15, 9, 30, 0, 0, lending.IST)
	resp, err := svc.Get(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, sweeper.calls)
	require.Len(t, resp.RecentNotifications, 1)
	assert.Equal(t, "Late fee charged", resp.RecentNotifications[0].Title)
	assert.Equal(t, 5, notices.lastFilter.PageSize)
	assert.Equal(t, int64(7), resp.ActiveLoans)
	assert.Equal(t, int64(2), resp.OverdueLoans)
	assert.Equal(t, "125000.50", resp.TotalOutstanding)
	assert.Equal(t, "8200.00", resp.CollectedThisMonth)
	assert.Equal(t, "150.00", resp.PenaltiesThisMonth)
	assert.Equal(t, "2026-03-01", resp.MonthStart)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, lending.IST), repo.lastFrom)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, lending.IST), repo.lastTo)
}

func TestDashboardService_Get_MonthBoundaryBeforeMidnightIST(t *testing.T) {
	repo := &stubStatsRepo{stats: &report.DashboardStats{}}
	svc := NewDashboardService(repo, &stubSweeper{}, &stubNoticeRepo{}, zap.NewNop())

	// 2026-02-28 20:00 UTC is already March 1st in IST
	now := time.Date(2026, 2, 28, 20, 0, 0, 0, time.UTC)
	resp, err := svc.Get(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", resp.MonthStart)
}

func TestDashboardService_Get_SweepFailureIsNotFatal(t *testing.T) {
	repo := &stubStatsRepo{stats: &report.DashboardStats{ActiveLoans: 1}}
	sweeper := &stubSweeper{err: errors.New("deadlock detected")}
	svc := NewDashboardService(repo, sweeper, &stubNoticeRepo{}, zap.NewNop())

	resp, err := svc.Get(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ActiveLoans)
}

func TestDashboardService_Get_StatsError(t *testing.T) {
	repo := &stubStatsRepo{err: errors.New("connection reset")}
	svc := NewDashboardService(repo, &stubSweeper{}, &stubNoticeRepo{}, zap.NewNop())

	_, err := svc.Get(context.Background(), time.Now())
	assert.Error(t, err)
}
