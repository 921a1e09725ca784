package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTopupRepository implements lending.TopupRepository using GORM
type GormTopupRepository struct {
	db *gorm.DB
}

// NewGormTopupRepository creates a new GormTopupRepository
func NewGormTopupRepository(db *gorm.DB) *GormTopupRepository {
	return &GormTopupRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormTopupRepository) WithTx(tx *gorm.DB) *GormTopupRepository {
	return &GormTopupRepository{db: tx}
}

// FindByID finds a top-up by ID
func (r *GormTopupRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Topup, error) {
	var model models.TopupModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLoan finds all top-ups for a loan, newest first
func (r *GormTopupRepository) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]lending.Topup, error) {
	var modelList []models.TopupModel
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("date DESC, created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	topups := make([]lending.Topup, len(modelList))
	for i := range modelList {
		topups[i] = *modelList[i].ToDomain()
	}
	return topups, nil
}

// Save creates or updates a top-up
func (r *GormTopupRepository) Save(ctx context.Context, topup *lending.Topup) error {
	model := models.TopupModelFromDomain(topup)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a top-up row
func (r *GormTopupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TopupModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTopupRepository implements lending.TopupRepository
var _ lending.TopupRepository = (*GormTopupRepository)(nil)
