package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/report"
	"github.com/spf-lend/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDashboardRepository serves the dashboard read model with aggregate
// queries. It never loads full rows.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// Stats computes the dashboard figures. Collected and penalty sums cover
// [from, to); counts and outstanding are point-in-time.
func (r *GormDashboardRepository) Stats(ctx context.Context, from, to time.Time) (*report.DashboardStats, error) {
	stats := &report.DashboardStats{
		TotalOutstanding: decimal.Zero,
		PrincipalAtRisk:  decimal.Zero,
		CollectedInRange: decimal.Zero,
		PenaltiesInRange: decimal.Zero,
	}

	db := r.db.WithContext(ctx)

	if err := db.Model(&models.BorrowerModel{}).Count(&stats.TotalBorrowers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.BorrowerModel{}).
		Where("status = ?", lending.BorrowerStatusActive).
		Count(&stats.ActiveBorrowers).Error; err != nil {
		return nil, err
	}

	loanCounts := []struct {
		status lending.LoanStatus
		dest   *int64
	}{
		{lending.LoanStatusActive, &stats.ActiveLoans},
		{lending.LoanStatusOverdue, &stats.OverdueLoans},
		{lending.LoanStatusClosed, &stats.ClosedLoans},
	}
	for _, c := range loanCounts {
		if err := db.Model(&models.LoanModel{}).
			Where("status = ?", c.status).
			Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var err error
	stats.TotalOutstanding, err = r.sum(db.Model(&models.LoanModel{}).
		Select("SUM(outstanding_amount)").
		Where("status IN ?", []lending.LoanStatus{lending.LoanStatusActive, lending.LoanStatusOverdue}))
	if err != nil {
		return nil, err
	}

	stats.PrincipalAtRisk, err = r.sum(db.Model(&models.LoanModel{}).
		Select("SUM(principal_amount)").
		Where("status = ?", lending.LoanStatusOverdue))
	if err != nil {
		return nil, err
	}

	stats.CollectedInRange, err = r.sum(db.Model(&models.PaymentModel{}).
		Select("SUM(amount)").
		Where("date >= ? AND date < ?", from, to))
	if err != nil {
		return nil, err
	}

	stats.PenaltiesInRange, err = r.sum(db.Model(&models.PenaltyModel{}).
		Select("SUM(amount)").
		Where("date >= ? AND date < ?", from, to))
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *GormDashboardRepository) sum(query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := query.Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Ensure GormDashboardRepository implements report.Repository
var _ report.Repository = (*GormDashboardRepository)(nil)
