package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/lending"
	"go.uber.org/zap"
)

// LedgerService owns the outstanding-balance computation. Every mutation of
// a loan's transaction history funnels through a recalculation so the
// persisted outstanding never drifts from the ledger.
type LedgerService struct {
	tm     lending.TransactionManager
	loans  lending.LoanRepository
	logger *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(tm lending.TransactionManager, loans lending.LoanRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		tm:     tm,
		loans:  loans,
		logger: logger,
	}
}

// Recalculate recomputes one loan's outstanding balance and status inside
// its own transaction and returns the loan as persisted
func (s *LedgerService) Recalculate(ctx context.Context, loanID uuid.UUID) (*LoanResponse, error) {
	var loan *lending.Loan
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		var txErr error
		loan, txErr = recalculateLocked(ctx, repos, loanID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	response := ToLoanResponse(loan)
	return &response, nil
}

// SweepOverdue flips every active loan past its due date to OVERDUE and
// returns how many changed. Recalculation never produces OVERDUE itself,
// so this sweep is the only writer of that status.
func (s *LedgerService) SweepOverdue(ctx context.Context) (int64, error) {
	changed, err := s.loans.MarkOverdueBefore(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.logger.Info("Marked loans overdue", zap.Int64("count", changed))
	}
	return changed, nil
}

// gatherTotals loads the lifetime transaction sums the outstanding
// computation consumes
func gatherTotals(ctx context.Context, repos lending.TxRepos, loanID uuid.UUID) (lending.LedgerTotals, error) {
	var totals lending.LedgerTotals
	var err error

	if totals.Penalties, err = repos.Penalties.SumForLoan(ctx, loanID); err != nil {
		return totals, err
	}
	if totals.PaymentsAll, err = repos.Payments.SumForLoan(ctx, loanID); err != nil {
		return totals, err
	}
	if totals.PaymentsNonInterest, err = repos.Payments.SumForLoanExcluding(ctx, loanID, lending.PaymentForInterest); err != nil {
		return totals, err
	}
	if totals.PaymentsInterest, err = repos.Payments.SumForLoanByCategory(ctx, loanID, lending.PaymentForInterest); err != nil {
		return totals, err
	}
	if totals.PaymentsPenalty, err = repos.Payments.SumForLoanByCategory(ctx, loanID, lending.PaymentForPenalty); err != nil {
		return totals, err
	}
	return totals, nil
}

// recalculateLocked recomputes a loan's outstanding inside the caller's
// transaction. The loan row is locked first so concurrent mutations of the
// same loan serialize on it.
func recalculateLocked(ctx context.Context, repos lending.TxRepos, loanID uuid.UUID) (*lending.Loan, error) {
	loan, err := repos.Loans.FindByIDForUpdate(ctx, loanID)
	if err != nil {
		return nil, err
	}

	totals, err := gatherTotals(ctx, repos, loanID)
	if err != nil {
		return nil, err
	}

	result := lending.ComputeOutstanding(loan, totals)
	loan.ApplyLedgerResult(result.Outstanding, result.Status)

	if err := repos.Loans.Save(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}
