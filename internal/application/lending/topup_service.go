package lending

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TopupService manages principal top-ups. A top-up folds its amount into
// the loan's principal rather than appearing as a separate ledger line, so
// create, update and delete all adjust the principal symmetrically before
// recalculating.
type TopupService struct {
	tm     lending.TransactionManager
	logger *zap.Logger
}

// NewTopupService creates a new TopupService
func NewTopupService(tm lending.TransactionManager, logger *zap.Logger) *TopupService {
	return &TopupService{tm: tm, logger: logger}
}

// Create adds a top-up to a live loan
func (s *TopupService) Create(ctx context.Context, loanID uuid.UUID, req CreateTopupRequest) (*TopupResponse, error) {
	var topup *lending.Topup
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		loan, err := repos.Loans.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if !loan.Status.IsLive() {
			return shared.NewBusinessRuleError("Top-ups are only allowed on active or overdue loans")
		}

		topup, err = lending.NewTopup(loanID, req.Amount, req.Date, req.Remarks)
		if err != nil {
			return err
		}
		if err := loan.AdjustPrincipal(topup.Amount); err != nil {
			return err
		}
		if err := repos.Loans.Save(ctx, loan); err != nil {
			return err
		}
		if err := repos.Topups.Save(ctx, topup); err != nil {
			return err
		}
		_, err = recalculateLocked(ctx, repos, loanID)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToTopupResponse(topup)
	return &response, nil
}

// List returns every top-up row for a loan
func (s *TopupService) List(ctx context.Context, loanID uuid.UUID) ([]TopupResponse, error) {
	var topups []lending.Topup
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		if _, err := repos.Loans.FindByID(ctx, loanID); err != nil {
			return err
		}
		var txErr error
		topups, txErr = repos.Topups.FindByLoan(ctx, loanID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	responses := make([]TopupResponse, len(topups))
	for i := range topups {
		responses[i] = ToTopupResponse(&topups[i])
	}
	return responses, nil
}

// Update corrects one top-up row, shifting the principal by the difference
func (s *TopupService) Update(ctx context.Context, topupID uuid.UUID, req UpdateTopupRequest) (*TopupResponse, error) {
	var topup *lending.Topup
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		var txErr error
		topup, txErr = repos.Topups.FindByID(ctx, topupID)
		if txErr != nil {
			return txErr
		}
		loan, txErr := repos.Loans.FindByIDForUpdate(ctx, topup.LoanID)
		if txErr != nil {
			return txErr
		}
		delta, txErr := topup.Update(req.Amount, req.Date, req.Remarks)
		if txErr != nil {
			return txErr
		}
		if txErr = loan.AdjustPrincipal(delta); txErr != nil {
			return txErr
		}
		if txErr = repos.Loans.Save(ctx, loan); txErr != nil {
			return txErr
		}
		if txErr = repos.Topups.Save(ctx, topup); txErr != nil {
			return txErr
		}
		_, txErr = recalculateLocked(ctx, repos, topup.LoanID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	response := ToTopupResponse(topup)
	return &response, nil
}

// Delete reverses one top-up, folding its amount back out of the principal
func (s *TopupService) Delete(ctx context.Context, topupID uuid.UUID) error {
	return s.tm.Do(ctx, func(repos lending.TxRepos) error {
		topup, err := repos.Topups.FindByID(ctx, topupID)
		if err != nil {
			return err
		}
		loan, err := repos.Loans.FindByIDForUpdate(ctx, topup.LoanID)
		if err != nil {
			return err
		}
		if err := loan.AdjustPrincipal(topup.Amount.Neg()); err != nil {
			return err
		}
		if err := repos.Loans.Save(ctx, loan); err != nil {
			return err
		}
		if err := repos.Topups.Delete(ctx, topupID); err != nil {
			return err
		}
		_, err = recalculateLocked(ctx, repos, topup.LoanID)
		return err
	})
}
