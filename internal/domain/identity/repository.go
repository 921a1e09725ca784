package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// UserRepository persists User aggregates
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PermissionRepository persists the permission catalog and the
// role-permission matrix
type PermissionRepository interface {
	FindAll(ctx context.Context) ([]Permission, error)
	GrantsForRole(ctx context.Context, role Role) ([]string, error)
	Grant(ctx context.Context, role Role, code string) error
	Revoke(ctx context.Context, role Role, code string) error
	// SeedDefaults inserts the default catalog, and the default matrix
	// when the matrix is empty. Idempotent.
	SeedDefaults(ctx context.Context) error
}
