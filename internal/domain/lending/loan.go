package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/domain/shared/valueobject"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive     LoanStatus = "ACTIVE"
	LoanStatusOverdue    LoanStatus = "OVERDUE"
	LoanStatusClosed     LoanStatus = "CLOSED"
	LoanStatusDeleted    LoanStatus = "DELETED"
	LoanStatusWrittenOff LoanStatus = "WRITTEN_OFF"
)

// IsValid checks if the status is a valid loan status
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusActive, LoanStatusOverdue, LoanStatusClosed, LoanStatusDeleted, LoanStatusWrittenOff:
		return true
	}
	return false
}

// IsTerminal returns true for states that recalculation must never leave
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusDeleted || s == LoanStatusWrittenOff
}

// IsLive returns true if the loan counts against the one-active-loan rule
func (s LoanStatus) IsLive() bool {
	return s == LoanStatusActive || s == LoanStatusOverdue
}

// InterestType represents the interest computation policy
type InterestType string

const (
	InterestTypeFlat     InterestType = "FLAT"
	InterestTypeReducing InterestType = "REDUCING"
)

// IsValid checks if the interest type is recognized
func (t InterestType) IsValid() bool {
	return t == InterestTypeFlat || t == InterestTypeReducing
}

// TenureUnit represents the unit of a loan tenure
type TenureUnit string

const (
	TenureUnitDay   TenureUnit = "DAY"
	TenureUnitWeek  TenureUnit = "WEEK"
	TenureUnitMonth TenureUnit = "MONTH"
)

// IsValid checks if the tenure unit is recognized
func (u TenureUnit) IsValid() bool {
	return u == TenureUnitDay || u == TenureUnitWeek || u == TenureUnitMonth
}

// Loan is the aggregate root for a disbursed loan.
// PrincipalAmount is mutable: top-ups adjust it in place rather than
// appearing as separate ledger lines. OutstandingAmount is a persisted
// cache of the ledger computation, never authored directly.
type Loan struct {
	shared.BaseAggregateRoot
	BorrowerID        uuid.UUID
	PrincipalAmount   valueobject.Money
	InterestRate      decimal.Decimal
	InterestType      InterestType
	TenureValue       int
	TenureUnit        TenureUnit
	DisbursementDate  time.Time
	DueDate           time.Time
	OutstandingAmount valueobject.Money
	Status            LoanStatus
	PenaltyAmount     decimal.Decimal // per-loan override, zero means unset
	PenaltyDay        int             // per-loan override, zero means unset
	Remarks           string
}

// NewLoan creates a loan at origination. The due date is derived from the
// disbursement date plus the tenure, and the initial outstanding equals the
// principal until the first recalculation.
func NewLoan(borrowerID uuid.UUID, principal valueobject.Money, rate decimal.Decimal, interestType InterestType, tenureValue int, tenureUnit TenureUnit, disbursement time.Time, remarks string) (*Loan, error) {
	if borrowerID == uuid.Nil {
		return nil, shared.NewValidationError("Borrower is required")
	}
	if !principal.IsPositive() {
		return nil, shared.NewValidationError("Principal amount must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("Interest rate cannot be negative")
	}
	if !interestType.IsValid() {
		return nil, shared.NewValidationError("Invalid interest type")
	}
	if tenureValue <= 0 {
		return nil, shared.NewValidationError("Tenure must be positive")
	}
	if !tenureUnit.IsValid() {
		return nil, shared.NewValidationError("Invalid tenure unit")
	}
	if disbursement.IsZero() {
		return nil, shared.NewValidationError("Disbursement date is required")
	}

	loan := &Loan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BorrowerID:        borrowerID,
		PrincipalAmount:   principal,
		InterestRate:      rate,
		InterestType:      interestType,
		TenureValue:       tenureValue,
		TenureUnit:        tenureUnit,
		DisbursementDate:  disbursement,
		DueDate:           DueDateFor(disbursement, tenureValue, tenureUnit),
		OutstandingAmount: principal,
		Status:            LoanStatusActive,
	}
	loan.Remarks = remarks

	loan.AddDomainEvent(NewLoanCreatedEvent(loan))
	return loan, nil
}

// DueDateFor computes disbursement + tenure
func DueDateFor(disbursement time.Time, tenureValue int, tenureUnit TenureUnit) time.Time {
	switch tenureUnit {
	case TenureUnitDay:
		return disbursement.AddDate(0, 0, tenureValue)
	case TenureUnitWeek:
		return disbursement.AddDate(0, 0, tenureValue*7)
	default:
		return disbursement.AddDate(0, tenureValue, 0)
	}
}

// ExpectedFlatInterest returns principal x rate x tenure / 100, the single
// flat charge for the whole tenure. The tenure unit deliberately does not
// scale the formula: the rate is treated as already expressed per unit.
func (l *Loan) ExpectedFlatInterest() decimal.Decimal {
	if l.InterestType != InterestTypeFlat {
		return decimal.Zero
	}
	return l.PrincipalAmount.Amount().
		Mul(l.InterestRate).
		Mul(decimal.NewFromInt(int64(l.TenureValue))).
		Div(decimal.NewFromInt(100)).
		Round(2)
}

// ApplyLedgerResult installs a freshly computed outstanding balance and
// status on the aggregate
func (l *Loan) ApplyLedgerResult(outstanding valueobject.Money, status LoanStatus) {
	closing := status == LoanStatusClosed && l.Status != LoanStatusClosed
	l.OutstandingAmount = outstanding
	l.Status = status
	l.Touch()
	if closing {
		l.AddDomainEvent(NewLoanClosedEvent(l))
	}
}

// AdjustPrincipal shifts the principal by delta (positive for a top-up,
// negative for a top-up reversal)
func (l *Loan) AdjustPrincipal(delta decimal.Decimal) error {
	next := l.PrincipalAmount.Amount().Add(delta)
	if next.IsNegative() {
		return shared.NewBusinessRuleError("Principal cannot become negative")
	}
	l.PrincipalAmount = valueobject.NewMoneyINR(next.Round(2))
	l.Touch()
	return nil
}

// MarkOverdue flips an active loan past its due date to OVERDUE
func (l *Loan) MarkOverdue(now time.Time) bool {
	if l.Status != LoanStatusActive {
		return false
	}
	if !now.After(l.DueDate) {
		return false
	}
	l.Status = LoanStatusOverdue
	l.Touch()
	return true
}

// MarkDeleted soft-deletes the loan. Terminal states are sticky.
func (l *Loan) MarkDeleted() error {
	if l.Status == LoanStatusDeleted {
		return shared.NewBusinessRuleError("Loan is already deleted")
	}
	if l.Status == LoanStatusWrittenOff {
		return shared.NewBusinessRuleError("Written-off loans cannot be deleted")
	}
	l.Status = LoanStatusDeleted
	l.Touch()
	return nil
}

// WriteOff marks an unrecoverable loan as written off
func (l *Loan) WriteOff() error {
	if !l.Status.IsLive() {
		return shared.NewBusinessRuleError("Only active or overdue loans can be written off")
	}
	l.Status = LoanStatusWrittenOff
	l.Touch()
	l.AddDomainEvent(NewLoanWrittenOffEvent(l))
	return nil
}

// Restore brings a soft-deleted loan back to ACTIVE. The caller is
// responsible for checking the one-active-loan rule and borrower status.
func (l *Loan) Restore() error {
	if l.Status != LoanStatusDeleted {
		return shared.NewBusinessRuleError("Only deleted loans can be restored")
	}
	l.Status = LoanStatusActive
	l.Touch()
	return nil
}

// SetPenaltyOverride sets the per-loan late-fee policy. Zero values clear
// the override and fall back to the global settings.
func (l *Loan) SetPenaltyOverride(amount decimal.Decimal, day int) error {
	if amount.IsNegative() {
		return shared.NewValidationError("Penalty amount cannot be negative")
	}
	if day < 0 || day > 28 {
		return shared.NewValidationError("Penalty day must be between 0 and 28")
	}
	l.PenaltyAmount = amount
	l.PenaltyDay = day
	l.Touch()
	return nil
}
