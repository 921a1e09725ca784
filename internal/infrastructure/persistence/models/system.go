package models

import (
	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/audit"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/settings"
)

// SettingModel is the persistence model for settings rows.
type SettingModel struct {
	BaseModel
	Key   string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting.
func (m *SettingModel) ToDomain() *settings.Setting {
	return &settings.Setting{
		BaseEntity: m.BaseModel.ToDomain(),
		Key:        m.Key,
		Value:      m.Value,
	}
}

// FromDomain populates the persistence model from a domain Setting.
func (m *SettingModel) FromDomain(s *settings.Setting) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Key = s.Key
	m.Value = s.Value
}

// NotificationModel is the persistence model for the dashboard feed.
type NotificationModel struct {
	BaseModel
	Title   string            `gorm:"type:varchar(200);not null"`
	Message string            `gorm:"type:text"`
	Type    notification.Type `gorm:"type:varchar(20);not null;default:'INFO';index"`
	Read    bool              `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		Title:      m.Title,
		Message:    m.Message,
		Type:       m.Type,
		Read:       m.Read,
	}
}

// FromDomain populates the persistence model from a domain Notification.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.Title = n.Title
	m.Message = n.Message
	m.Type = n.Type
	m.Read = n.Read
}

// AuditLogModel is the persistence model for audit entries.
type AuditLogModel struct {
	BaseModel
	Actor    string    `gorm:"type:varchar(100);not null;index"`
	Action   string    `gorm:"type:varchar(100);not null;index"`
	Entity   string    `gorm:"type:varchar(50);not null"`
	EntityID uuid.UUID `gorm:"type:uuid;index"`
	Details  string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditLogModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		BaseEntity: m.BaseModel.ToDomain(),
		Actor:      m.Actor,
		Action:     m.Action,
		Entity:     m.Entity,
		EntityID:   m.EntityID,
		Details:    m.Details,
	}
}

// FromDomain populates the persistence model from a domain audit Entry.
func (m *AuditLogModel) FromDomain(e *audit.Entry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Actor = e.Actor
	m.Action = e.Action
	m.Entity = e.Entity
	m.EntityID = e.EntityID
	m.Details = e.Details
}

// All returns every persistence model for migration registration.
func All() []interface{} {
	return []interface{}{
		&BorrowerModel{},
		&LoanModel{},
		&PaymentModel{},
		&PenaltyModel{},
		&TopupModel{},
		&UserModel{},
		&PermissionModel{},
		&RolePermissionModel{},
		&SettingModel{},
		&NotificationModel{},
		&AuditLogModel{},
	}
}
