package lending

import (
	"context"
	"fmt"
	"time"

	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// RunLock serializes scheduler runs across processes. Acquire returns
// false when another holder owns the lock.
type RunLock interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

const (
	accrualLockName = "penalty-accrual"
	accrualLockTTL  = time.Hour
)

// AccrualReport summarizes one daily accrual run
type AccrualReport struct {
	Skipped          bool  `json:"skipped"`
	LoansScanned     int   `json:"loans_scanned"`
	PenaltiesApplied int64 `json:"penalties_applied"`
	Errors           int   `json:"errors"`
}

// AccrualService is the daily late-fee job. For every live loan it charges
// one penalty per missed day in the current month, gated by the global
// enable flag, the loan's maturity, and whether the month's obligation has
// already been paid. Every charge is guarded against duplicates, so the
// run is idempotent and safe to repeat after a crash.
type AccrualService struct {
	tm            lending.TransactionManager
	loans         lending.LoanRepository
	payments      lending.PaymentRepository
	settings      settings.Repository
	notifications notification.Repository
	lock          RunLock
	logger        *zap.Logger
}

// NewAccrualService creates a new AccrualService
func NewAccrualService(
	tm lending.TransactionManager,
	loans lending.LoanRepository,
	payments lending.PaymentRepository,
	settingsRepo settings.Repository,
	notifications notification.Repository,
	lock RunLock,
	logger *zap.Logger,
) *AccrualService {
	return &AccrualService{
		tm:            tm,
		loans:         loans,
		payments:      payments,
		settings:      settingsRepo,
		notifications: notifications,
		lock:          lock,
		logger:        logger,
	}
}

// RunDaily executes one accrual sweep as of now. Loans are processed
// independently: a failure on one loan is logged and counted but never
// stops the rest of the sweep.
func (s *AccrualService) RunDaily(ctx context.Context, now time.Time) (AccrualReport, error) {
	var report AccrualReport

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, accrualLockName, accrualLockTTL)
		if err != nil {
			return report, err
		}
		if !acquired {
			s.logger.Info("Accrual run already in progress elsewhere, skipping")
			report.Skipped = true
			return report, nil
		}
		defer func() {
			if err := s.lock.Release(ctx, accrualLockName); err != nil {
				s.logger.Warn("Failed to release accrual lock", zap.Error(err))
			}
		}()
	}

	snapshot, err := s.settings.Snapshot(ctx)
	if err != nil {
		return report, err
	}
	if !snapshot.PenaltyEnabled() {
		s.logger.Info("Penalty accrual disabled, skipping run")
		report.Skipped = true
		return report, nil
	}

	// the overdue sweep runs first so due-date state is current
	if _, err := s.loans.MarkOverdueBefore(ctx, now); err != nil {
		return report, err
	}

	loans, err := s.loans.FindByStatuses(ctx, lending.LoanStatusActive, lending.LoanStatusOverdue)
	if err != nil {
		return report, err
	}
	report.LoansScanned = len(loans)

	for i := range loans {
		applied, err := s.accrueLoan(ctx, &loans[i], snapshot, now)
		if err != nil {
			report.Errors++
			s.logger.Error("Accrual failed for loan",
				zap.String("loan_id", loans[i].ID.String()),
				zap.Error(err))
			continue
		}
		report.PenaltiesApplied += applied
	}

	s.logger.Info("Accrual run finished",
		zap.Int("loans_scanned", report.LoansScanned),
		zap.Int64("penalties_applied", report.PenaltiesApplied),
		zap.Int("errors", report.Errors))
	return report, nil
}

// accrueLoan charges every missed day for one loan and returns how many
// penalties were created
func (s *AccrualService) accrueLoan(ctx context.Context, loan *lending.Loan, snapshot settings.Snapshot, now time.Time) (int64, error) {
	if !lending.IsMature(now, loan.DisbursementDate) {
		return 0, nil
	}

	policy := lending.ResolvePenaltyPolicy(loan, snapshot.PenaltyAmount(), snapshot.PenaltyDays())

	// an INTEREST or EMI payment in the current month satisfies the
	// obligation and suppresses the whole month
	local := now.In(lending.IST)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, lending.IST)
	monthEnd := monthStart.AddDate(0, 1, 0)
	satisfied, err := s.payments.HasInRange(ctx, loan.ID, monthStart, monthEnd,
		lending.PaymentForInterest, lending.PaymentForEMI)
	if err != nil {
		return 0, err
	}
	if satisfied {
		return 0, nil
	}

	dates := lending.AccrualDates(now, loan.DisbursementDate, policy.GraceDay)
	if len(dates) == 0 {
		return 0, nil
	}

	var applied int64
	err = s.tm.Do(ctx, func(repos lending.TxRepos) error {
		if _, err := repos.Loans.FindByIDForUpdate(ctx, loan.ID); err != nil {
			return err
		}
		for _, date := range dates {
			exists, err := repos.Penalties.ExistsOnDate(ctx, loan.ID, date, lending.AutomaticLateFeeReason)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			penalty, err := lending.NewPenalty(loan.ID, policy.Amount, date, lending.AutomaticLateFeeReason)
			if err != nil {
				return err
			}
			if err := repos.Penalties.Save(ctx, penalty); err != nil {
				return err
			}
			applied++
		}
		if applied == 0 {
			return nil
		}
		_, err := recalculateLocked(ctx, repos, loan.ID)
		return err
	})
	if err != nil {
		return 0, err
	}

	if applied > 0 {
		n, nErr := notification.New("Late fee applied",
			fmt.Sprintf("%d late fee(s) of %s applied to loan %s", applied, policy.Amount.StringFixed(2), loan.ID),
			notification.TypePenalty)
		if nErr == nil {
			nErr = s.notifications.Save(ctx, n)
		}
		if nErr != nil {
			s.logger.Warn("Failed to create penalty notification", zap.Error(nErr))
		}
	}
	return applied, nil
}
