package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// Type categorizes an internal notification
type Type string

const (
	TypeInfo     Type = "INFO"
	TypePayment  Type = "PAYMENT"
	TypePenalty  Type = "PENALTY"
	TypeReminder Type = "REMINDER"
)

// IsValid checks if the notification type is recognized
func (t Type) IsValid() bool {
	switch t {
	case TypeInfo, TypePayment, TypePenalty, TypeReminder:
		return true
	}
	return false
}

// Notification is one entry in the internal dashboard feed
type Notification struct {
	shared.BaseEntity
	Title   string
	Message string
	Type    Type
	Read    bool
}

// New creates a notification entry
func New(title, message string, typ Type) (*Notification, error) {
	if title == "" {
		return nil, shared.NewValidationError("Notification title is required")
	}
	if !typ.IsValid() {
		typ = TypeInfo
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Title:      title,
		Message:    message,
		Type:       typ,
	}, nil
}

// MarkRead flags the notification as seen
func (n *Notification) MarkRead() {
	n.Read = true
	n.Touch()
}

// Repository persists notifications
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Notification, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context) error
}
