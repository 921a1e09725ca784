package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is the aggregate read model behind the dashboard. The
// monetary figures are computed in the database, not by walking loans in
// memory.
type DashboardStats struct {
	TotalBorrowers   int64
	ActiveBorrowers  int64
	ActiveLoans      int64
	OverdueLoans     int64
	ClosedLoans      int64
	TotalOutstanding decimal.Decimal
	PrincipalAtRisk  decimal.Decimal
	CollectedInRange decimal.Decimal
	PenaltiesInRange decimal.Decimal
}

// Repository serves the dashboard read model. The range bounds the
// collected/penalty figures; counts and outstanding are point-in-time.
type Repository interface {
	Stats(ctx context.Context, from, to time.Time) (*DashboardStats, error)
}
