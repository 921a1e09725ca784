package persistence

import (
	"context"

	"github.com/spf-lend/backend/internal/domain/audit"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Save appends an audit entry
func (r *GormAuditRepository) Save(ctx context.Context, entry *audit.Entry) error {
	model := &models.AuditLogModel{}
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll finds audit entries, newest first
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, error) {
	var modelList []models.AuditLogModel
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{})
	if actor, ok := filter.Filters["actor"]; ok {
		query = query.Where("actor = ?", actor)
	}
	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset((filter.Page - 1) * filter.PageSize)
	}
	if err := query.Order("created_at DESC").Find(&modelList).Error; err != nil {
		return nil, err
	}
	entries := make([]audit.Entry, len(modelList))
	for i := range modelList {
		entries[i] = *modelList[i].ToDomain()
	}
	return entries, nil
}

// Count counts audit entries matching the filter
func (r *GormAuditRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{})
	if actor, ok := filter.Filters["actor"]; ok {
		query = query.Where("actor = ?", actor)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormAuditRepository implements audit.Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
