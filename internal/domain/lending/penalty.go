package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// AutomaticLateFeeReason is the reason recorded on scheduler-created
// penalties. The accrual duplicate guard matches on it exactly.
const AutomaticLateFeeReason = "Automatic Late Fee (Daily)"

// Penalty is one late-fee charge against a loan. NotificationSent starts
// false and is flipped only after an error-free borrower notification
// attempt, which makes delivery at-least-once across scheduler runs.
type Penalty struct {
	shared.BaseEntity
	LoanID           uuid.UUID
	Amount           decimal.Decimal
	Date             time.Time
	Reason           string
	NotificationSent bool
}

// NewPenalty creates a penalty row after validating its fields
func NewPenalty(loanID uuid.UUID, amount decimal.Decimal, date time.Time, reason string) (*Penalty, error) {
	if loanID == uuid.Nil {
		return nil, shared.NewValidationError("Loan is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Penalty amount must be positive")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("Penalty date is required")
	}
	if reason == "" {
		return nil, shared.NewValidationError("Penalty reason is required")
	}
	return &Penalty{
		BaseEntity:       shared.NewBaseEntity(),
		LoanID:           loanID,
		Amount:           amount.Round(2),
		Date:             date,
		Reason:           reason,
		NotificationSent: false,
	}, nil
}

// Update edits a penalty row in place
func (p *Penalty) Update(amount decimal.Decimal, date time.Time, reason string) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("Penalty amount must be positive")
	}
	if date.IsZero() {
		return shared.NewValidationError("Penalty date is required")
	}
	if reason == "" {
		return shared.NewValidationError("Penalty reason is required")
	}
	p.Amount = amount.Round(2)
	p.Date = date
	p.Reason = reason
	p.Touch()
	return nil
}

// MarkNotified records a successful borrower notification attempt
func (p *Penalty) MarkNotified() {
	p.NotificationSent = true
	p.Touch()
}

// IsAutomatic reports whether this penalty was created by the accrual job
func (p *Penalty) IsAutomatic() bool {
	return p.Reason == AutomaticLateFeeReason
}
