package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// Entry is one audit-trail record. Override payment allocations and
// destructive operations write one for traceability.
type Entry struct {
	shared.BaseEntity
	Actor    string
	Action   string
	Entity   string
	EntityID uuid.UUID
	Details  string
}

// NewEntry creates an audit entry
func NewEntry(actor, action, entity string, entityID uuid.UUID, details string) (*Entry, error) {
	if actor == "" {
		return nil, shared.NewValidationError("Audit actor is required")
	}
	if action == "" {
		return nil, shared.NewValidationError("Audit action is required")
	}
	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		Actor:      actor,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Details:    details,
	}, nil
}

// Repository persists audit entries
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
