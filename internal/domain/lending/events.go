package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// Event types
const (
	EventLoanCreated     = "lending.loan.created"
	EventLoanClosed      = "lending.loan.closed"
	EventLoanWrittenOff  = "lending.loan.written_off"
	EventPaymentRecorded = "lending.payment.recorded"
	EventPenaltyApplied  = "lending.penalty.applied"
	EventTopupApplied    = "lending.topup.applied"
)

// LoanCreatedEvent is raised when a loan is originated
type LoanCreatedEvent struct {
	shared.BaseDomainEvent
	BorrowerID uuid.UUID       `json:"borrower_id"`
	Principal  decimal.Decimal `json:"principal"`
	DueDate    time.Time       `json:"due_date"`
}

// NewLoanCreatedEvent creates a LoanCreatedEvent
func NewLoanCreatedEvent(loan *Loan) *LoanCreatedEvent {
	return &LoanCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLoanCreated, "Loan", loan.ID),
		BorrowerID:      loan.BorrowerID,
		Principal:       loan.PrincipalAmount.Amount(),
		DueDate:         loan.DueDate,
	}
}

// LoanClosedEvent is raised when recalculation clamps a loan to zero
type LoanClosedEvent struct {
	shared.BaseDomainEvent
	BorrowerID uuid.UUID `json:"borrower_id"`
}

// NewLoanClosedEvent creates a LoanClosedEvent
func NewLoanClosedEvent(loan *Loan) *LoanClosedEvent {
	return &LoanClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLoanClosed, "Loan", loan.ID),
		BorrowerID:      loan.BorrowerID,
	}
}

// LoanWrittenOffEvent is raised when a loan is written off
type LoanWrittenOffEvent struct {
	shared.BaseDomainEvent
	BorrowerID  uuid.UUID       `json:"borrower_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewLoanWrittenOffEvent creates a LoanWrittenOffEvent
func NewLoanWrittenOffEvent(loan *Loan) *LoanWrittenOffEvent {
	return &LoanWrittenOffEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLoanWrittenOff, "Loan", loan.ID),
		BorrowerID:      loan.BorrowerID,
		Outstanding:     loan.OutstandingAmount.Amount(),
	}
}
