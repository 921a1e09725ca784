package lending

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PenaltyService manages manually applied penalties. Scheduler-created
// penalties come from AccrualService; both kinds flow through the same
// recalculation.
type PenaltyService struct {
	tm     lending.TransactionManager
	logger *zap.Logger
}

// NewPenaltyService creates a new PenaltyService
func NewPenaltyService(tm lending.TransactionManager, logger *zap.Logger) *PenaltyService {
	return &PenaltyService{tm: tm, logger: logger}
}

// Create applies a manual penalty to a loan and recalculates it
func (s *PenaltyService) Create(ctx context.Context, loanID uuid.UUID, req CreatePenaltyRequest) (*PenaltyResponse, error) {
	var penalty *lending.Penalty
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		loan, err := repos.Loans.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status.IsTerminal() {
			return shared.NewBusinessRuleError("Penalties cannot be applied to deleted or written-off loans")
		}

		penalty, err = lending.NewPenalty(loanID, req.Amount, req.Date, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.Penalties.Save(ctx, penalty); err != nil {
			return err
		}
		_, err = recalculateLocked(ctx, repos, loanID)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToPenaltyResponse(penalty)
	return &response, nil
}

// List returns every penalty row for a loan
func (s *PenaltyService) List(ctx context.Context, loanID uuid.UUID) ([]PenaltyResponse, error) {
	var penalties []lending.Penalty
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		if _, err := repos.Loans.FindByID(ctx, loanID); err != nil {
			return err
		}
		var txErr error
		penalties, txErr = repos.Penalties.FindByLoan(ctx, loanID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	responses := make([]PenaltyResponse, len(penalties))
	for i := range penalties {
		responses[i] = ToPenaltyResponse(&penalties[i])
	}
	return responses, nil
}

// Update corrects one penalty row and recalculates the loan
func (s *PenaltyService) Update(ctx context.Context, penaltyID uuid.UUID, req UpdatePenaltyRequest) (*PenaltyResponse, error) {
	var penalty *lending.Penalty
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		var txErr error
		penalty, txErr = repos.Penalties.FindByID(ctx, penaltyID)
		if txErr != nil {
			return txErr
		}
		if txErr = penalty.Update(req.Amount, req.Date, req.Reason); txErr != nil {
			return txErr
		}
		if txErr = repos.Penalties.Save(ctx, penalty); txErr != nil {
			return txErr
		}
		_, txErr = recalculateLocked(ctx, repos, penalty.LoanID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	response := ToPenaltyResponse(penalty)
	return &response, nil
}

// Delete waives one penalty row and recalculates the loan
func (s *PenaltyService) Delete(ctx context.Context, penaltyID uuid.UUID) error {
	return s.tm.Do(ctx, func(repos lending.TxRepos) error {
		penalty, err := repos.Penalties.FindByID(ctx, penaltyID)
		if err != nil {
			return err
		}
		if err := repos.Penalties.Delete(ctx, penaltyID); err != nil {
			return err
		}
		_, err = recalculateLocked(ctx, repos, penalty.LoanID)
		return err
	})
}
