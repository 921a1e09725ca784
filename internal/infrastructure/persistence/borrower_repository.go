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

// GormBorrowerRepository implements lending.BorrowerRepository using GORM
type GormBorrowerRepository struct {
	db *gorm.DB
}

// NewGormBorrowerRepository creates a new GormBorrowerRepository
func NewGormBorrowerRepository(db *gorm.DB) *GormBorrowerRepository {
	return &GormBorrowerRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormBorrowerRepository) WithTx(tx *gorm.DB) *GormBorrowerRepository {
	return &GormBorrowerRepository{db: tx}
}

// FindByID finds a borrower by ID
func (r *GormBorrowerRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Borrower, error) {
	var model models.BorrowerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds borrowers matching the filter
func (r *GormBorrowerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lending.Borrower, error) {
	var modelList []models.BorrowerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BorrowerModel{}), filter)

	if filter.OrderBy != "" {
		dir := "desc"
		if filter.OrderDir == "asc" {
			dir = "asc"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	}
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset((filter.Page - 1) * filter.PageSize)
	}

	if err := query.Find(&modelList).Error; err != nil {
		return nil, err
	}

	borrowers := make([]lending.Borrower, len(modelList))
	for i := range modelList {
		borrowers[i] = *modelList[i].ToDomain()
	}
	return borrowers, nil
}

// Count counts borrowers matching the filter
func (r *GormBorrowerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BorrowerModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBorrowerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", pattern, pattern)
	}
	return query
}

// FindByStatus finds all borrowers in the given status
func (r *GormBorrowerRepository) FindByStatus(ctx context.Context, status lending.BorrowerStatus) ([]lending.Borrower, error) {
	var modelList []models.BorrowerModel
	if err := r.db.WithContext(ctx).Where("status = ?", status).Find(&modelList).Error; err != nil {
		return nil, err
	}
	borrowers := make([]lending.Borrower, len(modelList))
	for i := range modelList {
		borrowers[i] = *modelList[i].ToDomain()
	}
	return borrowers, nil
}

// Save creates or updates a borrower
func (r *GormBorrowerRepository) Save(ctx context.Context, borrower *lending.Borrower) error {
	model := models.BorrowerModelFromDomain(borrower)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a borrower row permanently
func (r *GormBorrowerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BorrowerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBorrowerRepository implements lending.BorrowerRepository
var _ lending.BorrowerRepository = (*GormBorrowerRepository)(nil)
