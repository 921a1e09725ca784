package lending

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/audit"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentService records collected sums against loans. A recorded sum is
// split across the penalty, interest and principal buckets by the waterfall
// unless the caller overrides the category, and every mutation ends with a
// ledger recalculation in the same transaction.
type PaymentService struct {
	tm            lending.TransactionManager
	notifications notification.Repository
	logger        *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(tm lending.TransactionManager, notifications notification.Repository, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		tm:            tm,
		notifications: notifications,
		logger:        logger,
	}
}

// Record splits and persists one collected sum. The payment rows, the
// audit entry for an override, and the recalculated loan commit or roll
// back together.
func (s *PaymentService) Record(ctx context.Context, loanID uuid.UUID, actor string, req RecordPaymentRequest) (*RecordPaymentResponse, error) {
	var (
		created []lending.Payment
		loan    *lending.Loan
	)

	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		locked, err := repos.Loans.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if locked.Status.IsTerminal() {
			return shared.NewBusinessRuleError("Payments cannot be recorded on deleted or written-off loans")
		}

		mode := lending.PaymentMode(req.Mode)

		if req.PaymentFor != "" {
			// manual allocation override, one row, audited
			payment, err := lending.NewPayment(loanID, req.Amount, req.Date, lending.PaymentFor(req.PaymentFor), mode, req.Remarks)
			if err != nil {
				return err
			}
			if err := repos.Payments.Save(ctx, payment); err != nil {
				return err
			}
			created = append(created, *payment)

			entry, err := audit.NewEntry(actor, "payment.allocation_override", "payment", payment.ID,
				fmt.Sprintf("amount=%s category=%s", req.Amount.StringFixed(2), req.PaymentFor))
			if err != nil {
				return err
			}
			if err := repos.Audit.Save(ctx, entry); err != nil {
				return err
			}
		} else {
			totals, err := gatherTotals(ctx, repos, loanID)
			if err != nil {
				return err
			}
			allocations := lending.AllocatePayment(req.Amount,
				totals.PendingPenalty(),
				totals.PendingInterest(locked.ExpectedFlatInterest()))
			if len(allocations) == 0 {
				return shared.NewValidationError("Payment amount must be positive")
			}
			for _, allocation := range allocations {
				payment, err := lending.NewPayment(loanID, allocation.Amount, req.Date, allocation.Category, mode, req.Remarks)
				if err != nil {
					return err
				}
				if err := repos.Payments.Save(ctx, payment); err != nil {
					return err
				}
				created = append(created, *payment)
			}
		}

		loan, err = recalculateLocked(ctx, repos, loanID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "Payment received",
		fmt.Sprintf("Payment of %s recorded against loan %s", req.Amount.StringFixed(2), loanID))

	response := &RecordPaymentResponse{Loan: ToLoanResponse(loan)}
	for i := range created {
		response.Payments = append(response.Payments, ToPaymentResponse(&created[i]))
	}
	return response, nil
}

// List returns every payment row for a loan, newest first
func (s *PaymentService) List(ctx context.Context, loanID uuid.UUID) ([]PaymentResponse, error) {
	var payments []lending.Payment
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		if _, err := repos.Loans.FindByID(ctx, loanID); err != nil {
			return err
		}
		var txErr error
		payments, txErr = repos.Payments.FindByLoan(ctx, loanID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, nil
}

// Update corrects one payment row and recalculates the loan
func (s *PaymentService) Update(ctx context.Context, paymentID uuid.UUID, req UpdatePaymentRequest) (*PaymentResponse, error) {
	var payment *lending.Payment
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		var txErr error
		payment, txErr = repos.Payments.FindByID(ctx, paymentID)
		if txErr != nil {
			return txErr
		}
		if txErr = payment.Update(req.Amount, req.Date, lending.PaymentFor(req.PaymentFor), lending.PaymentMode(req.Mode), req.Remarks); txErr != nil {
			return txErr
		}
		if txErr = repos.Payments.Save(ctx, payment); txErr != nil {
			return txErr
		}
		_, txErr = recalculateLocked(ctx, repos, payment.LoanID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// Delete removes one payment row and recalculates the loan. Removing a
// payment restores the balance it had settled, which can reopen a closed
// loan.
func (s *PaymentService) Delete(ctx context.Context, paymentID uuid.UUID) error {
	return s.tm.Do(ctx, func(repos lending.TxRepos) error {
		payment, err := repos.Payments.FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := repos.Payments.Delete(ctx, paymentID); err != nil {
			return err
		}
		_, err = recalculateLocked(ctx, repos, payment.LoanID)
		return err
	})
}

func (s *PaymentService) notify(ctx context.Context, title, message string) {
	n, err := notification.New(title, message, notification.TypePayment)
	if err == nil {
		err = s.notifications.Save(ctx, n)
	}
	if err != nil {
		s.logger.Warn("Failed to create payment notification", zap.Error(err))
	}
}
