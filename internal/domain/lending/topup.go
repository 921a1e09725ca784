package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// Topup is an increase to a loan's principal without a new loan. The
// amount is folded into the loan's principal on create and folded back
// out symmetrically on update or delete.
type Topup struct {
	shared.BaseEntity
	LoanID  uuid.UUID
	Amount  decimal.Decimal
	Date    time.Time
	Remarks string
}

// NewTopup creates a top-up row after validating its fields
func NewTopup(loanID uuid.UUID, amount decimal.Decimal, date time.Time, remarks string) (*Topup, error) {
	if loanID == uuid.Nil {
		return nil, shared.NewValidationError("Loan is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Top-up amount must be positive")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("Top-up date is required")
	}
	return &Topup{
		BaseEntity: shared.NewBaseEntity(),
		LoanID:     loanID,
		Amount:     amount.Round(2),
		Date:       date,
		Remarks:    remarks,
	}, nil
}

// Update edits a top-up row in place and returns the principal delta the
// caller must apply to the loan (new amount minus old amount)
func (t *Topup) Update(amount decimal.Decimal, date time.Time, remarks string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, shared.NewValidationError("Top-up amount must be positive")
	}
	if date.IsZero() {
		return decimal.Zero, shared.NewValidationError("Top-up date is required")
	}
	delta := amount.Round(2).Sub(t.Amount)
	t.Amount = amount.Round(2)
	t.Date = date
	t.Remarks = remarks
	t.Touch()
	return delta, nil
}
