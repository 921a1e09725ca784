package persistence

import (
	"context"
	"errors"

	"github.com/spf-lend/backend/internal/domain/settings"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettingRepository implements settings.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindByKey finds a setting by key
func (r *GormSettingRepository) FindByKey(ctx context.Context, key string) (*settings.Setting, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every setting row
func (r *GormSettingRepository) FindAll(ctx context.Context) ([]settings.Setting, error) {
	var modelList []models.SettingModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&modelList).Error; err != nil {
		return nil, err
	}
	result := make([]settings.Setting, len(modelList))
	for i := range modelList {
		result[i] = *modelList[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a setting
func (r *GormSettingRepository) Save(ctx context.Context, setting *settings.Setting) error {
	model := &models.SettingModel{}
	model.FromDomain(setting)
	return r.db.WithContext(ctx).Save(model).Error
}

// Snapshot loads every setting into an immutable map
func (r *GormSettingRepository) Snapshot(ctx context.Context) (settings.Snapshot, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	snap := make(settings.Snapshot, len(all))
	for _, s := range all {
		snap[s.Key] = s.Value
	}
	return snap, nil
}

// Ensure GormSettingRepository implements settings.Repository
var _ settings.Repository = (*GormSettingRepository)(nil)
