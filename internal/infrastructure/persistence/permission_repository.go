package persistence

import (
	"context"

	"github.com/spf-lend/backend/internal/domain/identity"
	"github.com/spf-lend/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPermissionRepository implements identity.PermissionRepository using GORM
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewGormPermissionRepository creates a new GormPermissionRepository
func NewGormPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

// FindAll returns the permission catalog ordered by category
func (r *GormPermissionRepository) FindAll(ctx context.Context) ([]identity.Permission, error) {
	var modelList []models.PermissionModel
	if err := r.db.WithContext(ctx).Order("category ASC, code ASC").Find(&modelList).Error; err != nil {
		return nil, err
	}
	perms := make([]identity.Permission, len(modelList))
	for i := range modelList {
		perms[i] = modelList[i].ToDomain()
	}
	return perms, nil
}

// GrantsForRole returns the permission codes granted to a role
func (r *GormPermissionRepository) GrantsForRole(ctx context.Context, role identity.Role) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.RolePermissionModel{}).
		Where("role = ?", role).
		Pluck("permission_code", &codes).Error
	return codes, err
}

// Grant adds one grant to the matrix. Granting twice is a no-op.
func (r *GormPermissionRepository) Grant(ctx context.Context, role identity.Role, code string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RolePermissionModel{Role: role, PermissionCode: code}).Error
}

// Revoke removes one grant from the matrix
func (r *GormPermissionRepository) Revoke(ctx context.Context, role identity.Role, code string) error {
	return r.db.WithContext(ctx).
		Where("role = ? AND permission_code = ?", role, code).
		Delete(&models.RolePermissionModel{}).Error
}

// SeedDefaults inserts the default permission catalog, and the default
// role matrix when the matrix is empty. Safe to run on every start.
func (r *GormPermissionRepository) SeedDefaults(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range identity.DefaultPermissions() {
			model := models.PermissionModel{Code: p.Code, Category: p.Category, Description: p.Description}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
				return err
			}
		}

		var existing int64
		if err := tx.Model(&models.RolePermissionModel{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		for role, codes := range identity.DefaultRoleGrants() {
			for _, code := range codes {
				grant := models.RolePermissionModel{Role: role, PermissionCode: code}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Ensure GormPermissionRepository implements identity.PermissionRepository
var _ identity.PermissionRepository = (*GormPermissionRepository)(nil)
