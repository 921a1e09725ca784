package notification

import (
	"context"
	"fmt"

	"github.com/spf-lend/backend/internal/domain/lending"
	"go.uber.org/zap"
)

// DispatchReport summarizes one dispatch run
type DispatchReport struct {
	Pending   int `json:"pending"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

// DispatchService delivers borrower-facing penalty notices at least once.
// A penalty's notification flag is flipped only after every channel
// delivered without error, so a failed or partial delivery is retried in
// full on the next run. Duplicate notices after a partial failure are the
// accepted cost of never losing one.
type DispatchService struct {
	penalties lending.PenaltyRepository
	loans     lending.LoanRepository
	borrowers lending.BorrowerRepository
	messenger Messenger
	logger    *zap.Logger
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(
	penalties lending.PenaltyRepository,
	loans lending.LoanRepository,
	borrowers lending.BorrowerRepository,
	messenger Messenger,
	logger *zap.Logger,
) *DispatchService {
	return &DispatchService{
		penalties: penalties,
		loans:     loans,
		borrowers: borrowers,
		messenger: messenger,
		logger:    logger,
	}
}

// Run delivers every pending penalty notice. Items are independent: one
// failure is counted and the rest still go out.
func (s *DispatchService) Run(ctx context.Context) (DispatchReport, error) {
	var report DispatchReport

	pending, err := s.penalties.FindUnnotified(ctx)
	if err != nil {
		return report, err
	}
	report.Pending = len(pending)

	for i := range pending {
		if err := s.dispatch(ctx, &pending[i]); err != nil {
			report.Failed++
			s.logger.Warn("Penalty notice delivery failed, will retry next run",
				zap.String("penalty_id", pending[i].ID.String()),
				zap.Error(err))
			continue
		}
		report.Delivered++
	}

	if report.Pending > 0 {
		s.logger.Info("Penalty notice dispatch finished",
			zap.Int("pending", report.Pending),
			zap.Int("delivered", report.Delivered),
			zap.Int("failed", report.Failed))
	}
	return report, nil
}

// dispatch sends one penalty notice over every available channel and
// flips the flag only when all of them succeeded
func (s *DispatchService) dispatch(ctx context.Context, penalty *lending.Penalty) error {
	loan, err := s.loans.FindByID(ctx, penalty.LoanID)
	if err != nil {
		return err
	}
	borrower, err := s.borrowers.FindByID(ctx, loan.BorrowerID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Dear %s, a late fee of %s was applied to your loan on %s. Outstanding balance: %s.",
		borrower.Name,
		penalty.Amount.StringFixed(2),
		penalty.Date.In(lending.IST).Format("02 Jan 2006"),
		loan.OutstandingAmount.Amount().StringFixed(2))

	if borrower.Email != "" {
		if err := s.messenger.SendEmail(ctx, borrower.Email, "Late fee applied", message); err != nil {
			return fmt.Errorf("email to %s: %w", borrower.Email, err)
		}
	}
	if borrower.Phone != "" {
		if err := s.messenger.SendText(ctx, borrower.Phone, message); err != nil {
			return fmt.Errorf("text to %s: %w", borrower.Phone, err)
		}
	}

	penalty.MarkNotified()
	return s.penalties.Save(ctx, penalty)
}
