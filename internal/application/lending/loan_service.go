package lending

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/audit"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// LoanService handles loan lifecycle operations
type LoanService struct {
	tm            lending.TransactionManager
	loans         lending.LoanRepository
	ledger        *LedgerService
	notifications notification.Repository
	logger        *zap.Logger
}

// NewLoanService creates a new LoanService
func NewLoanService(tm lending.TransactionManager, loans lending.LoanRepository, ledger *LedgerService, notifications notification.Repository, logger *zap.Logger) *LoanService {
	return &LoanService{
		tm:            tm,
		loans:         loans,
		ledger:        ledger,
		notifications: notifications,
		logger:        logger,
	}
}

// Create disburses a new loan. A borrower may hold at most one live loan
// at a time, and disabled borrowers cannot receive disbursements.
func (s *LoanService) Create(ctx context.Context, req CreateLoanRequest) (*LoanResponse, error) {
	var loan *lending.Loan
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		borrower, err := repos.Borrowers.FindByID(ctx, req.BorrowerID)
		if err != nil {
			return err
		}
		if borrower.IsDisabled() {
			return shared.NewBusinessRuleError("Disabled borrowers cannot receive loans")
		}

		live, err := repos.Loans.FindLiveByBorrower(ctx, req.BorrowerID)
		if err != nil {
			return err
		}
		if len(live) > 0 {
			return shared.NewBusinessRuleError("Borrower already has an active loan")
		}

		loan, err = lending.NewLoan(
			req.BorrowerID,
			valueobject.NewMoneyINR(req.PrincipalAmount),
			req.InterestRate,
			lending.InterestType(req.InterestType),
			req.TenureValue,
			lending.TenureUnit(req.TenureUnit),
			req.DisbursementDate,
			req.Remarks,
		)
		if err != nil {
			return err
		}
		if !req.PenaltyAmount.IsZero() || req.PenaltyDay != 0 {
			if err := loan.SetPenaltyOverride(req.PenaltyAmount, req.PenaltyDay); err != nil {
				return err
			}
		}
		return repos.Loans.Save(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "Loan disbursed",
		fmt.Sprintf("Loan of %s disbursed to borrower %s", loan.PrincipalAmount.Amount().StringFixed(2), loan.BorrowerID))

	response := ToLoanResponse(loan)
	return &response, nil
}

// Get returns a loan with its borrower, full transaction history and the
// derived ledger figures
func (s *LoanService) Get(ctx context.Context, loanID uuid.UUID) (*LoanDetailResponse, error) {
	var detail LoanDetailResponse
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		loan, err := repos.Loans.FindByID(ctx, loanID)
		if err != nil {
			return err
		}
		borrower, err := repos.Borrowers.FindByID(ctx, loan.BorrowerID)
		if err != nil {
			return err
		}
		payments, err := repos.Payments.FindByLoan(ctx, loanID)
		if err != nil {
			return err
		}
		penalties, err := repos.Penalties.FindByLoan(ctx, loanID)
		if err != nil {
			return err
		}
		topups, err := repos.Topups.FindByLoan(ctx, loanID)
		if err != nil {
			return err
		}
		totals, err := gatherTotals(ctx, repos, loanID)
		if err != nil {
			return err
		}

		detail = LoanDetailResponse{
			LoanResponse:     ToLoanResponse(loan),
			Borrower:         ToBorrowerResponse(borrower),
			Payments:         make([]PaymentResponse, len(payments)),
			Penalties:        make([]PenaltyResponse, len(penalties)),
			Topups:           make([]TopupResponse, len(topups)),
			ExpectedInterest: loan.ExpectedFlatInterest(),
			TotalPaid:        totals.PaymentsAll,
			PendingInterest:  totals.PendingInterest(loan.ExpectedFlatInterest()),
			PendingPenalty:   totals.PendingPenalty(),
		}
		for i := range payments {
			detail.Payments[i] = ToPaymentResponse(&payments[i])
		}
		for i := range penalties {
			detail.Penalties[i] = ToPenaltyResponse(&penalties[i])
		}
		for i := range topups {
			detail.Topups[i] = ToTopupResponse(&topups[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns loans matching the filter. The overdue sweep runs first so
// the listing never shows a stale ACTIVE status on a loan past its due
// date.
func (s *LoanService) List(ctx context.Context, filter LoanListFilter) ([]LoanResponse, int64, error) {
	if _, err := s.ledger.SweepOverdue(ctx); err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	} else {
		// soft-deleted loans only show in the trash listing
		domainFilter.Filters["exclude_status"] = lending.LoanStatusDeleted
	}
	if filter.BorrowerID != "" {
		domainFilter.Filters["borrower_id"] = filter.BorrowerID
	}

	loans, err := s.loans.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.loans.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LoanResponse, len(loans))
	for i := range loans {
		responses[i] = ToLoanResponse(&loans[i])
	}
	return responses, total, nil
}

// Update edits a loan's policy fields
func (s *LoanService) Update(ctx context.Context, loanID uuid.UUID, req UpdateLoanRequest) (*LoanResponse, error) {
	var loan *lending.Loan
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		var txErr error
		loan, txErr = repos.Loans.FindByIDForUpdate(ctx, loanID)
		if txErr != nil {
			return txErr
		}
		if req.PenaltyAmount != nil || req.PenaltyDay != nil {
			amount := loan.PenaltyAmount
			day := loan.PenaltyDay
			if req.PenaltyAmount != nil {
				amount = *req.PenaltyAmount
			}
			if req.PenaltyDay != nil {
				day = *req.PenaltyDay
			}
			if txErr = loan.SetPenaltyOverride(amount, day); txErr != nil {
				return txErr
			}
		}
		if req.Remarks != nil {
			loan.Remarks = *req.Remarks
		}
		return repos.Loans.Save(ctx, loan)
	})
	if err != nil {
		return nil, err
	}
	response := ToLoanResponse(loan)
	return &response, nil
}

// SoftDelete moves a loan to the trash
func (s *LoanService) SoftDelete(ctx context.Context, loanID uuid.UUID, actor string) error {
	return s.tm.Do(ctx, func(repos lending.TxRepos) error {
		loan, err := repos.Loans.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if err := loan.MarkDeleted(); err != nil {
			return err
		}
		if err := repos.Loans.Save(ctx, loan); err != nil {
			return err
		}
		return s.audit(ctx, repos, actor, "loan.delete", loanID, "moved to trash")
	})
}

// WriteOff marks a live loan as unrecoverable
func (s *LoanService) WriteOff(ctx context.Context, loanID uuid.UUID, actor string) (*LoanResponse, error) {
	var loan *lending.Loan
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		var txErr error
		loan, txErr = repos.Loans.FindByIDForUpdate(ctx, loanID)
		if txErr != nil {
			return txErr
		}
		if txErr = loan.WriteOff(); txErr != nil {
			return txErr
		}
		if txErr = repos.Loans.Save(ctx, loan); txErr != nil {
			return txErr
		}
		return s.audit(ctx, repos, actor, "loan.write_off", loanID,
			fmt.Sprintf("outstanding=%s", loan.OutstandingAmount.Amount().StringFixed(2)))
	})
	if err != nil {
		return nil, err
	}
	response := ToLoanResponse(loan)
	return &response, nil
}

// Restore brings a trashed loan back. The one-active-loan rule applies to
// restores exactly as it does to disbursements, and the restored loan is
// recalculated so its status settles from the ledger rather than from
// whatever it was when deleted.
func (s *LoanService) Restore(ctx context.Context, loanID uuid.UUID, actor string) (*LoanResponse, error) {
	var loan *lending.Loan
	err := s.tm.Do(ctx, func(repos lending.TxRepos) error {
		var txErr error
		loan, txErr = repos.Loans.FindByIDForUpdate(ctx, loanID)
		if txErr != nil {
			return txErr
		}

		borrower, txErr := repos.Borrowers.FindByID(ctx, loan.BorrowerID)
		if txErr != nil {
			return txErr
		}
		if borrower.IsDisabled() {
			return shared.NewBusinessRuleError("Cannot restore a loan for a disabled borrower")
		}

		live, txErr := repos.Loans.FindLiveByBorrower(ctx, loan.BorrowerID)
		if txErr != nil {
			return txErr
		}
		if len(live) > 0 {
			return shared.NewBusinessRuleError("Borrower already has an active loan")
		}

		if txErr = loan.Restore(); txErr != nil {
			return txErr
		}
		if txErr = repos.Loans.Save(ctx, loan); txErr != nil {
			return txErr
		}
		if loan, txErr = recalculateLocked(ctx, repos, loanID); txErr != nil {
			return txErr
		}
		return s.audit(ctx, repos, actor, "loan.restore", loanID, "restored from trash")
	})
	if err != nil {
		return nil, err
	}
	response := ToLoanResponse(loan)
	return &response, nil
}

// ListTrash returns every soft-deleted loan
func (s *LoanService) ListTrash(ctx context.Context) ([]LoanResponse, error) {
	loans, err := s.loans.FindByStatuses(ctx, lending.LoanStatusDeleted)
	if err != nil {
		return nil, err
	}
	responses := make([]LoanResponse, len(loans))
	for i := range loans {
		responses[i] = ToLoanResponse(&loans[i])
	}
	return responses, nil
}

// Purge permanently removes a trashed loan and its transaction history.
// Only soft-deleted loans can be purged.
func (s *LoanService) Purge(ctx context.Context, loanID uuid.UUID, actor string) error {
	return s.tm.Do(ctx, func(repos lending.TxRepos) error {
		loan, err := repos.Loans.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != lending.LoanStatusDeleted {
			return shared.NewBusinessRuleError("Only trashed loans can be purged")
		}

		payments, err := repos.Payments.FindByLoan(ctx, loanID)
		if err != nil {
			return err
		}
		for i := range payments {
			if err := repos.Payments.Delete(ctx, payments[i].ID); err != nil {
				return err
			}
		}
		penalties, err := repos.Penalties.FindByLoan(ctx, loanID)
		if err != nil {
			return err
		}
		for i := range penalties {
			if err := repos.Penalties.Delete(ctx, penalties[i].ID); err != nil {
				return err
			}
		}
		topups, err := repos.Topups.FindByLoan(ctx, loanID)
		if err != nil {
			return err
		}
		for i := range topups {
			if err := repos.Topups.Delete(ctx, topups[i].ID); err != nil {
				return err
			}
		}

		if err := repos.Loans.Delete(ctx, loanID); err != nil {
			return err
		}
		return s.audit(ctx, repos, actor, "loan.purge", loanID, "permanently removed with history")
	})
}

// audit writes a trail entry through the transaction-scoped repo so it
// commits or rolls back with the loan mutation
func (s *LoanService) audit(ctx context.Context, repos lending.TxRepos, actor, action string, loanID uuid.UUID, details string) error {
	entry, err := audit.NewEntry(actor, action, "loan", loanID, details)
	if err != nil {
		return err
	}
	return repos.Audit.Save(ctx, entry)
}

func (s *LoanService) notify(ctx context.Context, title, message string) {
	n, err := notification.New(title, message, notification.TypeInfo)
	if err == nil {
		err = s.notifications.Save(ctx, n)
	}
	if err != nil {
		s.logger.Warn("Failed to create loan notification", zap.Error(err))
	}
}
