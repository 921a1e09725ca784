package models

import (
	"github.com/spf-lend/backend/internal/domain/identity"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(200);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;index"`
	Active       bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User aggregate.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain User aggregate.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Active = u.Active
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// PermissionModel is the persistence model for the permission catalog.
type PermissionModel struct {
	Code        string `gorm:"type:varchar(50);primary_key"`
	Category    string `gorm:"type:varchar(50);not null;index"`
	Description string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (PermissionModel) TableName() string {
	return "permissions"
}

// ToDomain converts the persistence model to a domain Permission.
func (m *PermissionModel) ToDomain() identity.Permission {
	return identity.Permission{
		Code:        m.Code,
		Category:    m.Category,
		Description: m.Description,
	}
}

// RolePermissionModel is one grant in the role-permission matrix.
type RolePermissionModel struct {
	Role           identity.Role `gorm:"type:varchar(20);primary_key"`
	PermissionCode string        `gorm:"type:varchar(50);primary_key"`
}

// TableName returns the table name for GORM
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}
