package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds notifications, newest first
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	var modelList []models.NotificationModel
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{})
	if typ, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", typ)
	}
	if unread, ok := filter.Filters["unread"]; ok && unread == true {
		query = query.Where("read = ?", false)
	}
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset((filter.Page - 1) * filter.PageSize)
	}
	if err := query.Order("created_at DESC").Find(&modelList).Error; err != nil {
		return nil, err
	}
	result := make([]notification.Notification, len(modelList))
	for i := range modelList {
		result[i] = *modelList[i].ToDomain()
	}
	return result, nil
}

// Count counts notifications matching the filter
func (r *GormNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{})
	if typ, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", typ)
	}
	if unread, ok := filter.Filters["unread"]; ok && unread == true {
		query = query.Where("read = ?", false)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUnread counts unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("read = ?", false).
		Count(&count).Error
	return count, err
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := &models.NotificationModel{}
	model.FromDomain(n)
	return r.db.WithContext(ctx).Save(model).Error
}

// MarkAllRead flags every notification as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("read = ?", false).
		Updates(map[string]interface{}{"read": true, "updated_at": time.Now()}).Error
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
