package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/audit"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// LoanRepository persists Loan aggregates
type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	// FindByIDForUpdate locks the loan row for the rest of the enclosing
	// transaction. Only meaningful inside a TransactionManager scope.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Loan, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByStatuses(ctx context.Context, statuses ...LoanStatus) ([]Loan, error)
	FindLiveByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]Loan, error)
	Save(ctx context.Context, loan *Loan) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MarkOverdueBefore bulk-flips ACTIVE loans whose due date has passed
	// to OVERDUE and returns how many rows changed
	MarkOverdueBefore(ctx context.Context, now time.Time) (int64, error)
}

// PaymentRepository persists Payment rows and serves the ledger sums
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByLoan(ctx context.Context, loanID uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumForLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error)
	SumForLoanByCategory(ctx context.Context, loanID uuid.UUID, category PaymentFor) (decimal.Decimal, error)
	SumForLoanExcluding(ctx context.Context, loanID uuid.UUID, category PaymentFor) (decimal.Decimal, error)
	// HasInRange reports whether any payment in [from, to) carries one of
	// the given categories. Used by the month-satisfied accrual gate.
	HasInRange(ctx context.Context, loanID uuid.UUID, from, to time.Time, categories ...PaymentFor) (bool, error)
}

// PenaltyRepository persists Penalty rows
type PenaltyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Penalty, error)
	FindByLoan(ctx context.Context, loanID uuid.UUID) ([]Penalty, error)
	Save(ctx context.Context, penalty *Penalty) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumForLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error)
	// ExistsOnDate is the accrual duplicate guard: same loan, same date,
	// same reason means the fee was already charged
	ExistsOnDate(ctx context.Context, loanID uuid.UUID, date time.Time, reason string) (bool, error)
	// FindUnnotified returns every penalty whose borrower notification has
	// not yet succeeded, regardless of age
	FindUnnotified(ctx context.Context) ([]Penalty, error)
}

// TopupRepository persists Topup rows
type TopupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Topup, error)
	FindByLoan(ctx context.Context, loanID uuid.UUID) ([]Topup, error)
	Save(ctx context.Context, topup *Topup) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BorrowerRepository persists Borrower aggregates
type BorrowerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Borrower, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Borrower, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByStatus(ctx context.Context, status BorrowerStatus) ([]Borrower, error)
	Save(ctx context.Context, borrower *Borrower) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TxRepos bundles the lending repositories bound to one transaction.
// Audit rides along so trail entries commit or roll back with the
// mutation they describe.
type TxRepos struct {
	Loans     LoanRepository
	Payments  PaymentRepository
	Penalties PenaltyRepository
	Topups    TopupRepository
	Borrowers BorrowerRepository
	Audit     audit.Repository
}

// TransactionManager runs a function with all lending repositories scoped
// to a single database transaction. The transaction commits when fn
// returns nil and rolls back on error or panic, so no exit path leaks a
// partial write.
type TransactionManager interface {
	Do(ctx context.Context, fn func(repos TxRepos) error) error
}
