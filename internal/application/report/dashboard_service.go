package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/report"
	"github.com/spf-lend/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DashboardResponse is the dashboard payload. Monetary figures are
// decimal strings.
type DashboardResponse struct {
	TotalBorrowers      int64               `json:"total_borrowers"`
	ActiveBorrowers     int64               `json:"active_borrowers"`
	ActiveLoans         int64               `json:"active_loans"`
	OverdueLoans        int64               `json:"overdue_loans"`
	ClosedLoans         int64               `json:"closed_loans"`
	TotalOutstanding    string              `json:"total_outstanding"`
	PrincipalAtRisk     string              `json:"principal_at_risk"`
	CollectedThisMonth  string              `json:"collected_this_month"`
	PenaltiesThisMonth  string              `json:"penalties_this_month"`
	MonthStart          string              `json:"month_start"`
	GeneratedAt         string              `json:"generated_at"`
	RecentNotifications []DashboardNotice `json:"recent_notifications"`
}

// DashboardNotice is a feed entry embedded in the dashboard payload
type DashboardNotice struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

const recentNoticeCount = 5

// DashboardService assembles the landing-page figures
type DashboardService struct {
	stats   report.Repository
	ledger  OverdueSweeper
	notices notification.Repository
	logger  *zap.Logger
}

// OverdueSweeper flips past-due ACTIVE loans to OVERDUE before the
// figures are read, so the dashboard never under-counts overdue loans
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// NewDashboardService creates a dashboard service
func NewDashboardService(stats report.Repository, ledger OverdueSweeper, notices notification.Repository, logger *zap.Logger) *DashboardService {
	return &DashboardService{stats: stats, ledger: ledger, notices: notices, logger: logger}
}

// Get returns the dashboard for the current month. "This month" runs on
// regional day boundaries.
func (s *DashboardService) Get(ctx context.Context, now time.Time) (*DashboardResponse, error) {
	if _, err := s.ledger.SweepOverdue(ctx); err != nil {
		s.logger.Warn("Overdue sweep before dashboard read failed", zap.Error(err))
	}

	local := now.In(lending.IST)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, lending.IST)
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats, err := s.stats.Stats(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	recent, err := s.notices.FindAll(ctx, shared.Filter{
		Page:     1,
		PageSize: recentNoticeCount,
		OrderBy:  "created_at",
		OrderDir: "desc",
	})
	if err != nil {
		s.logger.Warn("Recent notifications read failed", zap.Error(err))
	}
	noticeList := make([]DashboardNotice, len(recent))
	for i := range recent {
		noticeList[i] = DashboardNotice{
			ID:        recent[i].ID,
			Title:     recent[i].Title,
			Type:      string(recent[i].Type),
			Read:      recent[i].Read,
			CreatedAt: recent[i].CreatedAt,
		}
	}

	return &DashboardResponse{
		TotalBorrowers:      stats.TotalBorrowers,
		ActiveBorrowers:     stats.ActiveBorrowers,
		ActiveLoans:         stats.ActiveLoans,
		OverdueLoans:        stats.OverdueLoans,
		ClosedLoans:         stats.ClosedLoans,
		TotalOutstanding:    stats.TotalOutstanding.StringFixed(2),
		PrincipalAtRisk:     stats.PrincipalAtRisk.StringFixed(2),
		CollectedThisMonth:  stats.CollectedInRange.StringFixed(2),
		PenaltiesThisMonth:  stats.PenaltiesInRange.StringFixed(2),
		MonthStart:          monthStart.Format("2006-01-02"),
		GeneratedAt:         local.Format(time.RFC3339),
		RecentNotifications: noticeList,
	}, nil
}
