package identity

import (
	"github.com/spf-lend/backend/internal/domain/shared"
)

// Role represents a user's role
type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
)

// IsValid checks if the role is recognized
func (r Role) IsValid() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleStaff
}

// User is the aggregate root for an operator account
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
}

// NewUser creates a user account. The password hash is produced by the
// auth layer; the domain never sees plaintext.
func NewUser(username, email, passwordHash string, role Role) (*User, error) {
	if username == "" {
		return nil, shared.NewValidationError("Username is required")
	}
	if email == "" {
		return nil, shared.NewValidationError("Email is required")
	}
	if passwordHash == "" {
		return nil, shared.NewValidationError("Password hash is required")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Invalid role")
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		PasswordHash:      passwordHash,
		Role:              role,
		Active:            true,
	}, nil
}

// ChangeRole assigns a new role. The SUPERADMIN role is granted only at
// bootstrap, never through role management.
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewValidationError("Invalid role")
	}
	if role == RoleSuperAdmin {
		return shared.NewBusinessRuleError("SUPERADMIN cannot be assigned")
	}
	if u.Role == RoleSuperAdmin {
		return shared.NewBusinessRuleError("SUPERADMIN role cannot be changed")
	}
	u.Role = role
	u.Touch()
	return nil
}

// SetPasswordHash replaces the stored credential hash
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return shared.NewValidationError("Password hash is required")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// Deactivate disables the account
func (u *User) Deactivate() error {
	if u.Role == RoleSuperAdmin {
		return shared.NewBusinessRuleError("SUPERADMIN cannot be deactivated")
	}
	u.Active = false
	u.Touch()
	return nil
}

// Activate re-enables the account
func (u *User) Activate() {
	u.Active = true
	u.Touch()
}
