package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/domain/shared/valueobject"
)

// LoanModel is the persistence model for the Loan aggregate root.
type LoanModel struct {
	AggregateModel
	BorrowerID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	PrincipalAmount   decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	InterestRate      decimal.Decimal      `gorm:"type:decimal(9,4);not null"`
	InterestType      lending.InterestType `gorm:"type:varchar(20);not null;default:'FLAT'"`
	TenureValue       int                  `gorm:"not null"`
	TenureUnit        lending.TenureUnit   `gorm:"type:varchar(10);not null"`
	DisbursementDate  time.Time            `gorm:"not null;index"`
	DueDate           time.Time            `gorm:"not null;index"`
	OutstandingAmount decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Status            lending.LoanStatus   `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	PenaltyAmount     decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	PenaltyDay        int                  `gorm:"not null;default:0"`
	Remarks           string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LoanModel) TableName() string {
	return "loans"
}

// ToDomain converts the persistence model to a domain Loan aggregate.
func (m *LoanModel) ToDomain() *lending.Loan {
	return &lending.Loan{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		BorrowerID:        m.BorrowerID,
		PrincipalAmount:   valueobject.NewMoneyINR(m.PrincipalAmount),
		InterestRate:      m.InterestRate,
		InterestType:      m.InterestType,
		TenureValue:       m.TenureValue,
		TenureUnit:        m.TenureUnit,
		DisbursementDate:  m.DisbursementDate,
		DueDate:           m.DueDate,
		OutstandingAmount: valueobject.NewMoneyINR(m.OutstandingAmount),
		Status:            m.Status,
		PenaltyAmount:     m.PenaltyAmount,
		PenaltyDay:        m.PenaltyDay,
		Remarks:           m.Remarks,
	}
}

// FromDomain populates the persistence model from a domain Loan aggregate.
func (m *LoanModel) FromDomain(loan *lending.Loan) {
	m.FromDomainAggregateRoot(loan.BaseAggregateRoot)
	m.BorrowerID = loan.BorrowerID
	m.PrincipalAmount = loan.PrincipalAmount.Amount()
	m.InterestRate = loan.InterestRate
	m.InterestType = loan.InterestType
	m.TenureValue = loan.TenureValue
	m.TenureUnit = loan.TenureUnit
	m.DisbursementDate = loan.DisbursementDate
	m.DueDate = loan.DueDate
	m.OutstandingAmount = loan.OutstandingAmount.Amount()
	m.Status = loan.Status
	m.PenaltyAmount = loan.PenaltyAmount
	m.PenaltyDay = loan.PenaltyDay
	m.Remarks = loan.Remarks
}

// LoanModelFromDomain creates a new persistence model from a domain Loan.
func LoanModelFromDomain(loan *lending.Loan) *LoanModel {
	m := &LoanModel{}
	m.FromDomain(loan)
	return m
}

// PaymentModel is the persistence model for Payment rows.
type PaymentModel struct {
	BaseModel
	LoanID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Date       time.Time           `gorm:"not null;index"`
	PaymentFor lending.PaymentFor  `gorm:"type:varchar(10);not null;index"`
	Mode       lending.PaymentMode `gorm:"type:varchar(20);not null;default:'CASH'"`
	Remarks    string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *lending.Payment {
	return &lending.Payment{
		BaseEntity: m.BaseModel.ToDomain(),
		LoanID:     m.LoanID,
		Amount:     m.Amount,
		Date:       m.Date,
		PaymentFor: m.PaymentFor,
		Mode:       m.Mode,
		Remarks:    m.Remarks,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *lending.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.LoanID = p.LoanID
	m.Amount = p.Amount
	m.Date = p.Date
	m.PaymentFor = p.PaymentFor
	m.Mode = p.Mode
	m.Remarks = p.Remarks
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *lending.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PenaltyModel is the persistence model for Penalty rows. The composite
// unique index is the storage-level duplicate guard behind the accrual
// job's read-then-write check.
type PenaltyModel struct {
	BaseModel
	LoanID           uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_penalty_loan_date_reason,priority:1"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Date             time.Time       `gorm:"not null;uniqueIndex:idx_penalty_loan_date_reason,priority:2"`
	Reason           string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_penalty_loan_date_reason,priority:3"`
	NotificationSent bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (PenaltyModel) TableName() string {
	return "penalties"
}

// ToDomain converts the persistence model to a domain Penalty entity.
func (m *PenaltyModel) ToDomain() *lending.Penalty {
	return &lending.Penalty{
		BaseEntity:       m.BaseModel.ToDomain(),
		LoanID:           m.LoanID,
		Amount:           m.Amount,
		Date:             m.Date,
		Reason:           m.Reason,
		NotificationSent: m.NotificationSent,
	}
}

// FromDomain populates the persistence model from a domain Penalty entity.
func (m *PenaltyModel) FromDomain(p *lending.Penalty) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.LoanID = p.LoanID
	m.Amount = p.Amount
	m.Date = p.Date
	m.Reason = p.Reason
	m.NotificationSent = p.NotificationSent
}

// PenaltyModelFromDomain creates a new persistence model from a domain Penalty.
func PenaltyModelFromDomain(p *lending.Penalty) *PenaltyModel {
	m := &PenaltyModel{}
	m.FromDomain(p)
	return m
}

// TopupModel is the persistence model for Topup rows.
type TopupModel struct {
	BaseModel
	LoanID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Date    time.Time       `gorm:"not null"`
	Remarks string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TopupModel) TableName() string {
	return "topups"
}

// ToDomain converts the persistence model to a domain Topup entity.
func (m *TopupModel) ToDomain() *lending.Topup {
	return &lending.Topup{
		BaseEntity: m.BaseModel.ToDomain(),
		LoanID:     m.LoanID,
		Amount:     m.Amount,
		Date:       m.Date,
		Remarks:    m.Remarks,
	}
}

// FromDomain populates the persistence model from a domain Topup entity.
func (m *TopupModel) FromDomain(t *lending.Topup) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.LoanID = t.LoanID
	m.Amount = t.Amount
	m.Date = t.Date
	m.Remarks = t.Remarks
}

// TopupModelFromDomain creates a new persistence model from a domain Topup.
func TopupModelFromDomain(t *lending.Topup) *TopupModel {
	m := &TopupModel{}
	m.FromDomain(t)
	return m
}

// BorrowerModel is the persistence model for the Borrower aggregate root.
type BorrowerModel struct {
	AggregateModel
	Name           string                 `gorm:"type:varchar(200);not null;index"`
	Phone          string                 `gorm:"type:varchar(20);not null;index"`
	Email          string                 `gorm:"type:varchar(200)"`
	Address        string                 `gorm:"type:text"`
	AadhaarNumber  string                 `gorm:"type:varchar(20)"`
	PANNumber      string                 `gorm:"type:varchar(20)"`
	GuarantorName  string                 `gorm:"type:varchar(200)"`
	GuarantorPhone string                 `gorm:"type:varchar(20)"`
	Status         lending.BorrowerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (BorrowerModel) TableName() string {
	return "borrowers"
}

// ToDomain converts the persistence model to a domain Borrower aggregate.
func (m *BorrowerModel) ToDomain() *lending.Borrower {
	return &lending.Borrower{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:           m.Name,
		Phone:          m.Phone,
		Email:          m.Email,
		Address:        m.Address,
		AadhaarNumber:  m.AadhaarNumber,
		PANNumber:      m.PANNumber,
		GuarantorName:  m.GuarantorName,
		GuarantorPhone: m.GuarantorPhone,
		Status:         m.Status,
	}
}

// FromDomain populates the persistence model from a domain Borrower aggregate.
func (m *BorrowerModel) FromDomain(b *lending.Borrower) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.Phone = b.Phone
	m.Email = b.Email
	m.Address = b.Address
	m.AadhaarNumber = b.AadhaarNumber
	m.PANNumber = b.PANNumber
	m.GuarantorName = b.GuarantorName
	m.GuarantorPhone = b.GuarantorPhone
	m.Status = b.Status
}

// BorrowerModelFromDomain creates a new persistence model from a domain Borrower.
func BorrowerModelFromDomain(b *lending.Borrower) *BorrowerModel {
	m := &BorrowerModel{}
	m.FromDomain(b)
	return m
}
