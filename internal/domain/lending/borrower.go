package lending

import (
	"github.com/spf-lend/backend/internal/domain/shared"
)

// BorrowerStatus represents whether a borrower can hold live loans
type BorrowerStatus string

const (
	BorrowerStatusActive   BorrowerStatus = "ACTIVE"
	BorrowerStatusDisabled BorrowerStatus = "DISABLED"
)

// IsValid checks if the borrower status is recognized
func (s BorrowerStatus) IsValid() bool {
	return s == BorrowerStatusActive || s == BorrowerStatusDisabled
}

// Borrower is the aggregate root for a loan customer
type Borrower struct {
	shared.BaseAggregateRoot
	Name           string
	Phone          string
	Email          string
	Address        string
	AadhaarNumber  string
	PANNumber      string
	GuarantorName  string
	GuarantorPhone string
	Status         BorrowerStatus
}

// NewBorrower creates a borrower record
func NewBorrower(name, phone, email, address string) (*Borrower, error) {
	if name == "" {
		return nil, shared.NewValidationError("Borrower name is required")
	}
	if phone == "" {
		return nil, shared.NewValidationError("Borrower phone is required")
	}
	return &Borrower{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		Email:             email,
		Address:           address,
		Status:            BorrowerStatusActive,
	}, nil
}

// UpdateContact edits the borrower's contact fields
func (b *Borrower) UpdateContact(name, phone, email, address string) error {
	if name == "" {
		return shared.NewValidationError("Borrower name is required")
	}
	if phone == "" {
		return shared.NewValidationError("Borrower phone is required")
	}
	b.Name = name
	b.Phone = phone
	b.Email = email
	b.Address = address
	b.Touch()
	return nil
}

// SetKYC records identity proof numbers
func (b *Borrower) SetKYC(aadhaar, pan string) {
	b.AadhaarNumber = aadhaar
	b.PANNumber = pan
	b.Touch()
}

// SetGuarantor records the guarantor's contact
func (b *Borrower) SetGuarantor(name, phone string) {
	b.GuarantorName = name
	b.GuarantorPhone = phone
	b.Touch()
}

// Disable soft-deletes the borrower. The caller cascades live loans to
// DELETED in the same transaction.
func (b *Borrower) Disable() error {
	if b.Status == BorrowerStatusDisabled {
		return shared.NewBusinessRuleError("Borrower is already disabled")
	}
	b.Status = BorrowerStatusDisabled
	b.Touch()
	return nil
}

// Enable restores a disabled borrower
func (b *Borrower) Enable() error {
	if b.Status == BorrowerStatusActive {
		return shared.NewBusinessRuleError("Borrower is already active")
	}
	b.Status = BorrowerStatusActive
	b.Touch()
	return nil
}

// IsDisabled reports whether the borrower is soft-deleted
func (b *Borrower) IsDisabled() bool {
	return b.Status == BorrowerStatusDisabled
}
