package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("ramesh", "ramesh@example.com", "$2a$10$hash", RoleStaff)
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.Equal(t, RoleStaff, user.Role)

	tests := []struct {
		name     string
		username string
		email    string
		hash     string
		role     Role
	}{
		{"missing username", "", "a@b.c", "h", RoleStaff},
		{"missing email", "u", "", "h", RoleStaff},
		{"missing hash", "u", "a@b.c", "", RoleStaff},
		{"bad role", "u", "a@b.c", "h", Role("ROOT")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, tt.hash, tt.role)
			assert.Error(t, err)
		})
	}
}

func TestUser_ChangeRole(t *testing.T) {
	user, err := NewUser("ramesh", "ramesh@example.com", "h", RoleStaff)
	require.NoError(t, err)

	require.NoError(t, user.ChangeRole(RoleAdmin))
	assert.Equal(t, RoleAdmin, user.Role)

	assert.Error(t, user.ChangeRole(RoleSuperAdmin), "SUPERADMIN is bootstrap-only")

	boot, err := NewUser("owner", "owner@example.com", "h", RoleSuperAdmin)
	require.NoError(t, err)
	assert.Error(t, boot.ChangeRole(RoleAdmin), "SUPERADMIN is immutable")
	assert.Error(t, boot.Deactivate())
}

func TestDefaultRoleGrants(t *testing.T) {
	grants := DefaultRoleGrants()

	assert.Len(t, grants[RoleAdmin], len(DefaultPermissions()), "admin gets the full catalog")

	staff := grants[RoleStaff]
	assert.Contains(t, staff, PermLoanView)
	assert.Contains(t, staff, PermPaymentCreate)
	assert.NotContains(t, staff, PermLoanDelete)
	assert.NotContains(t, staff, PermSettingsEdit)
	assert.NotContains(t, staff, PermTrashPurge)
	assert.NotContains(t, staff, PermUsersManageRole)
}
