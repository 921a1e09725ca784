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

// GormPenaltyRepository implements lending.PenaltyRepository using GORM
type GormPenaltyRepository struct {
	db *gorm.DB
}

// NewGormPenaltyRepository creates a new GormPenaltyRepository
func NewGormPenaltyRepository(db *gorm.DB) *GormPenaltyRepository {
	return &GormPenaltyRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormPenaltyRepository) WithTx(tx *gorm.DB) *GormPenaltyRepository {
	return &GormPenaltyRepository{db: tx}
}

// FindByID finds a penalty by ID
func (r *GormPenaltyRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Penalty, error) {
	var model models.PenaltyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLoan finds all penalties for a loan, newest first
func (r *GormPenaltyRepository) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]lending.Penalty, error) {
	var modelList []models.PenaltyModel
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("date DESC, created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	penalties := make([]lending.Penalty, len(modelList))
	for i := range modelList {
		penalties[i] = *modelList[i].ToDomain()
	}
	return penalties, nil
}

// Save creates or updates a penalty
func (r *GormPenaltyRepository) Save(ctx context.Context, penalty *lending.Penalty) error {
	model := models.PenaltyModelFromDomain(penalty)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a penalty row
func (r *GormPenaltyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PenaltyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SumForLoan sums every penalty ever applied to a loan
func (r *GormPenaltyRepository) SumForLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.PenaltyModel{}).
		Where("loan_id = ?", loanID).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// ExistsOnDate is the accrual duplicate guard: matches loan, calendar day
// and reason exactly
func (r *GormPenaltyRepository) ExistsOnDate(ctx context.Context, loanID uuid.UUID, date time.Time, reason string) (bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PenaltyModel{}).
		Where("loan_id = ? AND reason = ? AND date >= ? AND date < ?", loanID, reason, dayStart, dayEnd).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindUnnotified returns every penalty with a pending borrower
// notification, oldest first
func (r *GormPenaltyRepository) FindUnnotified(ctx context.Context) ([]lending.Penalty, error) {
	var modelList []models.PenaltyModel
	err := r.db.WithContext(ctx).
		Where("notification_sent = ?", false).
		Order("created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	penalties := make([]lending.Penalty, len(modelList))
	for i := range modelList {
		penalties[i] = *modelList[i].ToDomain()
	}
	return penalties, nil
}

// Ensure GormPenaltyRepository implements lending.PenaltyRepository
var _ lending.PenaltyRepository = (*GormPenaltyRepository)(nil)
