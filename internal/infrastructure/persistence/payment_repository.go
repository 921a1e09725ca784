package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements lending.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: tx}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLoan finds all payments for a loan, newest first
func (r *GormPaymentRepository) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]lending.Payment, error) {
	var modelList []models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("date DESC, created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	payments := make([]lending.Payment, len(modelList))
	for i := range modelList {
		payments[i] = *modelList[i].ToDomain()
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *lending.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a payment row
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SumForLoan sums every payment row for a loan regardless of category
func (r *GormPaymentRepository) SumForLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, r.db.WithContext(ctx).Model(&models.PaymentModel{}).Where("loan_id = ?", loanID))
}

// SumForLoanByCategory sums payment rows of one category
func (r *GormPaymentRepository) SumForLoanByCategory(ctx context.Context, loanID uuid.UUID, category lending.PaymentFor) (decimal.Decimal, error) {
	return r.sum(ctx, r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("loan_id = ? AND payment_for = ?", loanID, category))
}

// SumForLoanExcluding sums payment rows of every category except one
func (r *GormPaymentRepository) SumForLoanExcluding(ctx context.Context, loanID uuid.UUID, category lending.PaymentFor) (decimal.Decimal, error) {
	return r.sum(ctx, r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("loan_id = ? AND payment_for <> ?", loanID, category))
}

func (r *GormPaymentRepository) sum(ctx context.Context, query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := query.Select("SUM(amount)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// HasInRange reports whether any payment in [from, to) carries one of the
// given categories
func (r *GormPaymentRepository) HasInRange(ctx context.Context, loanID uuid.UUID, from, to time.Time, categories ...lending.PaymentFor) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("loan_id = ? AND date >= ? AND date < ?", loanID, from, to)
	if len(categories) > 0 {
		query = query.Where("payment_for IN ?", categories)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormPaymentRepository implements lending.PaymentRepository
var _ lending.PaymentRepository = (*GormPaymentRepository)(nil)
