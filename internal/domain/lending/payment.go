package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// PaymentFor categorizes which obligation a payment row settles
type PaymentFor string

const (
	PaymentForEMI      PaymentFor = "EMI"
	PaymentForInterest PaymentFor = "INTEREST"
	PaymentForPenalty  PaymentFor = "PENALTY"
)

// IsValid checks if the payment category is recognized
func (p PaymentFor) IsValid() bool {
	return p == PaymentForEMI || p == PaymentForInterest || p == PaymentForPenalty
}

// PaymentMode represents how a payment was collected
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeOther        PaymentMode = "OTHER"
)

// IsValid checks if the payment mode is recognized
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeUPI, PaymentModeBankTransfer, PaymentModeCheque, PaymentModeOther:
		return true
	}
	return false
}

// Payment is one settled amount against a loan. A single collected sum may
// produce several payment rows, one per allocation bucket.
type Payment struct {
	shared.BaseEntity
	LoanID     uuid.UUID
	Amount     decimal.Decimal
	Date       time.Time
	PaymentFor PaymentFor
	Mode       PaymentMode
	Remarks    string
}

// NewPayment creates a payment row after validating its fields
func NewPayment(loanID uuid.UUID, amount decimal.Decimal, date time.Time, paymentFor PaymentFor, mode PaymentMode, remarks string) (*Payment, error) {
	if loanID == uuid.Nil {
		return nil, shared.NewValidationError("Loan is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Payment amount must be positive")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("Payment date is required")
	}
	if !paymentFor.IsValid() {
		return nil, shared.NewValidationError("Invalid payment category")
	}
	if !mode.IsValid() {
		return nil, shared.NewValidationError("Invalid payment mode")
	}
	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		LoanID:     loanID,
		Amount:     amount.Round(2),
		Date:       date,
		PaymentFor: paymentFor,
		Mode:       mode,
		Remarks:    remarks,
	}, nil
}

// Update edits a payment row in place
func (p *Payment) Update(amount decimal.Decimal, date time.Time, paymentFor PaymentFor, mode PaymentMode, remarks string) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("Payment amount must be positive")
	}
	if date.IsZero() {
		return shared.NewValidationError("Payment date is required")
	}
	if !paymentFor.IsValid() {
		return shared.NewValidationError("Invalid payment category")
	}
	if !mode.IsValid() {
		return shared.NewValidationError("Invalid payment mode")
	}
	p.Amount = amount.Round(2)
	p.Date = date
	p.PaymentFor = paymentFor
	p.Mode = mode
	p.Remarks = remarks
	p.Touch()
	return nil
}
