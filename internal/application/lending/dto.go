package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/lending"
)

// =============================================================================
// Borrower DTOs
// =============================================================================

// CreateBorrowerRequest represents a request to register a borrower
type CreateBorrowerRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Phone          string `json:"phone" binding:"required,min=6,max=20"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	Address        string `json:"address" binding:"max=500"`
	AadhaarNumber  string `json:"aadhaar_number" binding:"omitempty,len=12"`
	PANNumber      string `json:"pan_number" binding:"omitempty,len=10"`
	GuarantorName  string `json:"guarantor_name" binding:"max=200"`
	GuarantorPhone string `json:"guarantor_phone" binding:"omitempty,min=6,max=20"`
}

// UpdateBorrowerRequest represents a request to update a borrower
type UpdateBorrowerRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone          *string `json:"phone" binding:"omitempty,min=6,max=20"`
	Email          *string `json:"email" binding:"omitempty,email,max=200"`
	Address        *string `json:"address" binding:"omitempty,max=500"`
	AadhaarNumber  *string `json:"aadhaar_number" binding:"omitempty,len=12"`
	PANNumber      *string `json:"pan_number" binding:"omitempty,len=10"`
	GuarantorName  *string `json:"guarantor_name" binding:"omitempty,max=200"`
	GuarantorPhone *string `json:"guarantor_phone" binding:"omitempty,min=6,max=20"`
}

// BorrowerResponse represents a borrower in API responses
type BorrowerResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	AadhaarNumber  string    `json:"aadhaar_number"`
	PANNumber      string    `json:"pan_number"`
	GuarantorName  string    `json:"guarantor_name"`
	GuarantorPhone string    `json:"guarantor_phone"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BorrowerListFilter represents filter options for the borrower list
type BorrowerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE DISABLED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToBorrowerResponse maps a domain borrower to its response shape
func ToBorrowerResponse(b *lending.Borrower) BorrowerResponse {
	return BorrowerResponse{
		ID:             b.ID,
		Name:           b.Name,
		Phone:          b.Phone,
		Email:          b.Email,
		Address:        b.Address,
		AadhaarNumber:  b.AadhaarNumber,
		PANNumber:      b.PANNumber,
		GuarantorName:  b.GuarantorName,
		GuarantorPhone: b.GuarantorPhone,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// =============================================================================
// Loan DTOs
// =============================================================================

// CreateLoanRequest represents a request to disburse a loan
type CreateLoanRequest struct {
	BorrowerID       uuid.UUID       `json:"borrower_id" binding:"required"`
	PrincipalAmount  decimal.Decimal `json:"principal_amount" binding:"required"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	InterestType     string          `json:"interest_type" binding:"required,oneof=FLAT REDUCING"`
	TenureValue      int             `json:"tenure_value" binding:"required,min=1"`
	TenureUnit       string          `json:"tenure_unit" binding:"required,oneof=DAY WEEK MONTH"`
	DisbursementDate time.Time       `json:"disbursement_date" binding:"required"`
	PenaltyAmount    decimal.Decimal `json:"penalty_amount"`
	PenaltyDay       int             `json:"penalty_day" binding:"omitempty,min=0,max=28"`
	Remarks          string          `json:"remarks" binding:"max=500"`
}

// UpdateLoanRequest represents a request to edit a loan's policy fields
type UpdateLoanRequest struct {
	PenaltyAmount *decimal.Decimal `json:"penalty_amount"`
	PenaltyDay    *int             `json:"penalty_day" binding:"omitempty,min=0,max=28"`
	Remarks       *string          `json:"remarks" binding:"omitempty,max=500"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID                uuid.UUID       `json:"id"`
	BorrowerID        uuid.UUID       `json:"borrower_id"`
	PrincipalAmount   decimal.Decimal `json:"principal_amount"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	InterestType      string          `json:"interest_type"`
	TenureValue       int             `json:"tenure_value"`
	TenureUnit        string          `json:"tenure_unit"`
	DisbursementDate  time.Time       `json:"disbursement_date"`
	DueDate           time.Time       `json:"due_date"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	Status            string          `json:"status"`
	PenaltyAmount     decimal.Decimal `json:"penalty_amount"`
	PenaltyDay        int             `json:"penalty_day"`
	Remarks           string          `json:"remarks"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// LoanDetailResponse is a loan with its full transaction history and the
// derived ledger figures the detail screen shows
type LoanDetailResponse struct {
	LoanResponse
	Borrower         BorrowerResponse  `json:"borrower"`
	Payments         []PaymentResponse `json:"payments"`
	Penalties        []PenaltyResponse `json:"penalties"`
	Topups           []TopupResponse   `json:"topups"`
	ExpectedInterest decimal.Decimal   `json:"expected_interest"`
	TotalPaid        decimal.Decimal   `json:"total_paid"`
	PendingInterest  decimal.Decimal   `json:"pending_interest"`
	PendingPenalty   decimal.Decimal   `json:"pending_penalty"`
}

// LoanListFilter represents filter options for the loan list
type LoanListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=ACTIVE OVERDUE CLOSED WRITTEN_OFF"`
	BorrowerID string `form:"borrower_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToLoanResponse maps a domain loan to its response shape
func ToLoanResponse(l *lending.Loan) LoanResponse {
	return LoanResponse{
		ID:                l.ID,
		BorrowerID:        l.BorrowerID,
		PrincipalAmount:   l.PrincipalAmount.Amount(),
		InterestRate:      l.InterestRate,
		InterestType:      string(l.InterestType),
		TenureValue:       l.TenureValue,
		TenureUnit:        string(l.TenureUnit),
		DisbursementDate:  l.DisbursementDate,
		DueDate:           l.DueDate,
		OutstandingAmount: l.OutstandingAmount.Amount(),
		Status:            string(l.Status),
		PenaltyAmount:     l.PenaltyAmount,
		PenaltyDay:        l.PenaltyDay,
		Remarks:           l.Remarks,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// =============================================================================
// Payment DTOs
// =============================================================================

// RecordPaymentRequest represents a collected sum to record against a loan.
// PaymentFor is optional: when empty the amount is split by the waterfall,
// when set the split is overridden and audited.
type RecordPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Date       time.Time       `json:"date" binding:"required"`
	PaymentFor string          `json:"payment_for" binding:"omitempty,oneof=EMI INTEREST PENALTY"`
	Mode       string          `json:"mode" binding:"required,oneof=CASH UPI BANK_TRANSFER CHEQUE OTHER"`
	Remarks    string          `json:"remarks" binding:"max=500"`
}

// UpdatePaymentRequest represents a correction to a payment row
type UpdatePaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Date       time.Time       `json:"date" binding:"required"`
	PaymentFor string          `json:"payment_for" binding:"required,oneof=EMI INTEREST PENALTY"`
	Mode       string          `json:"mode" binding:"required,oneof=CASH UPI BANK_TRANSFER CHEQUE OTHER"`
	Remarks    string          `json:"remarks" binding:"max=500"`
}

// PaymentResponse represents a payment row in API responses
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	LoanID     uuid.UUID       `json:"loan_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	PaymentFor string          `json:"payment_for"`
	Mode       string          `json:"mode"`
	Remarks    string          `json:"remarks"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RecordPaymentResponse is the outcome of recording one collected sum: the
// rows it produced and the loan as it stands afterwards
type RecordPaymentResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Loan     LoanResponse      `json:"loan"`
}

// ToPaymentResponse maps a domain payment to its response shape
func ToPaymentResponse(p *lending.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		LoanID:     p.LoanID,
		Amount:     p.Amount,
		Date:       p.Date,
		PaymentFor: string(p.PaymentFor),
		Mode:       string(p.Mode),
		Remarks:    p.Remarks,
		CreatedAt:  p.CreatedAt,
	}
}

// =============================================================================
// Penalty DTOs
// =============================================================================

// CreatePenaltyRequest represents a manually applied penalty
type CreatePenaltyRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   time.Time       `json:"date" binding:"required"`
	Reason string          `json:"reason" binding:"required,max=200"`
}

// UpdatePenaltyRequest represents a correction to a penalty row
type UpdatePenaltyRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   time.Time       `json:"date" binding:"required"`
	Reason string          `json:"reason" binding:"required,max=200"`
}

// PenaltyResponse represents a penalty row in API responses
type PenaltyResponse struct {
	ID               uuid.UUID       `json:"id"`
	LoanID           uuid.UUID       `json:"loan_id"`
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
	Reason           string          `json:"reason"`
	NotificationSent bool            `json:"notification_sent"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToPenaltyResponse maps a domain penalty to its response shape
func ToPenaltyResponse(p *lending.Penalty) PenaltyResponse {
	return PenaltyResponse{
		ID:               p.ID,
		LoanID:           p.LoanID,
		Amount:           p.Amount,
		Date:             p.Date,
		Reason:           p.Reason,
		NotificationSent: p.NotificationSent,
		CreatedAt:        p.CreatedAt,
	}
}

// =============================================================================
// Topup DTOs
// =============================================================================

// CreateTopupRequest represents a principal top-up
type CreateTopupRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Date    time.Time       `json:"date" binding:"required"`
	Remarks string          `json:"remarks" binding:"max=500"`
}

// UpdateTopupRequest represents a correction to a top-up row
type UpdateTopupRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Date    time.Time       `json:"date" binding:"required"`
	Remarks string          `json:"remarks" binding:"max=500"`
}

// TopupResponse represents a top-up row in API responses
type TopupResponse struct {
	ID        uuid.UUID       `json:"id"`
	LoanID    uuid.UUID       `json:"loan_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Remarks   string          `json:"remarks"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToTopupResponse maps a domain top-up to its response shape
func ToTopupResponse(t *lending.Topup) TopupResponse {
	return TopupResponse{
		ID:        t.ID,
		LoanID:    t.LoanID,
		Amount:    t.Amount,
		Date:      t.Date,
		Remarks:   t.Remarks,
		CreatedAt: t.CreatedAt,
	}
}
