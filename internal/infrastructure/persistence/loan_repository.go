package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLoanRepository implements lending.LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormLoanRepository) WithTx(tx *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: tx}
}

// FindByID finds a loan by ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	var model models.LoanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a loan and locks its row for the enclosing
// transaction, serializing concurrent recalculations of the same loan
func (r *GormLoanRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	var model models.LoanModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds loans matching the filter
func (r *GormLoanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lending.Loan, error) {
	var modelList []models.LoanModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LoanModel{}), filter)

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

	loans := make([]lending.Loan, len(modelList))
	for i := range modelList {
		loans[i] = *modelList[i].ToDomain()
	}
	return loans, nil
}

// Count counts loans matching the filter
func (r *GormLoanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LoanModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLoanRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if status, ok := filter.Filters["exclude_status"]; ok {
		query = query.Where("status <> ?", status)
	}
	if borrowerID, ok := filter.Filters["borrower_id"]; ok {
		query = query.Where("borrower_id = ?", borrowerID)
	}
	if filter.Search != "" {
		query = query.Where("remarks LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// FindByStatuses finds all loans in any of the given statuses
func (r *GormLoanRepository) FindByStatuses(ctx context.Context, statuses ...lending.LoanStatus) ([]lending.Loan, error) {
	var modelList []models.LoanModel
	if err := r.db.WithContext(ctx).Where("status IN ?", statuses).Find(&modelList).Error; err != nil {
		return nil, err
	}
	loans := make([]lending.Loan, len(modelList))
	for i := range modelList {
		loans[i] = *modelList[i].ToDomain()
	}
	return loans, nil
}

// FindLiveByBorrower finds the borrower's loans that count against the
// one-active-loan rule
func (r *GormLoanRepository) FindLiveByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]lending.Loan, error) {
	var modelList []models.LoanModel
	err := r.db.WithContext(ctx).
		Where("borrower_id = ? AND status IN ?", borrowerID,
			[]lending.LoanStatus{lending.LoanStatusActive, lending.LoanStatusOverdue}).
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	loans := make([]lending.Loan, len(modelList))
	for i := range modelList {
		loans[i] = *modelList[i].ToDomain()
	}
	return loans, nil
}

// Save creates or updates a loan
func (r *GormLoanRepository) Save(ctx context.Context, loan *lending.Loan) error {
	model := models.LoanModelFromDomain(loan)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a loan row permanently
func (r *GormLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LoanModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkOverdueBefore bulk-flips ACTIVE loans past their due date to OVERDUE
func (r *GormLoanRepository) MarkOverdueBefore(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.LoanModel{}).
		Where("status = ? AND due_date < ?", lending.LoanStatusActive, now).
		Updates(map[string]interface{}{
			"status":     lending.LoanStatusOverdue,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// Ensure GormLoanRepository implements lending.LoanRepository
var _ lending.LoanRepository = (*GormLoanRepository)(nil)
