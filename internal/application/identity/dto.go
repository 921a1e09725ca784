package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/identity"
)

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=1"`
}

// LoginResponse carries the token pair and the logged-in user
type LoginResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshRequest represents a token refresh attempt
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse carries the rotated token pair
type RefreshResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ChangePasswordRequest represents a password change for the current user
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=100"`
}

// UserInfo represents a user in API responses
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Active      bool      `json:"active"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUserRequest represents a request to create an operator account
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=100"`
	Role     string `json:"role" binding:"required,oneof=ADMIN STAFF"`
}

// ChangeRoleRequest represents a role change
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN STAFF"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=SUPERADMIN ADMIN STAFF"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PermissionResponse represents one permission catalog entry
type PermissionResponse struct {
	Code        string `json:"code"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// RoleGrantsResponse represents the permission codes granted to one role
type RoleGrantsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// GrantRequest represents a single grant or revoke in the role matrix
type GrantRequest struct {
	Permission string `json:"permission" binding:"required"`
}

// ToUserInfo maps a domain user to its response shape
func ToUserInfo(u *identity.User, permissions []string) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        string(u.Role),
		Active:      u.Active,
		Permissions: permissions,
		CreatedAt:   u.CreatedAt,
	}
}
