package identity

import "strings"

// Permission describes one grantable capability
type Permission struct {
	Code        string
	Category    string
	Description string
}

// Permission codes
const (
	PermBorrowerView   = "borrower.view"
	PermBorrowerCreate = "borrower.create"
	PermBorrowerEdit   = "borrower.edit"
	PermBorrowerDelete = "borrower.delete"

	PermLoanView    = "loan.view"
	PermLoanCreate  = "loan.create"
	PermLoanEdit    = "loan.edit"
	PermLoanDelete  = "loan.delete"
	PermLoanApprove = "loan.approve"

	PermPaymentView   = "payment.view"
	PermPaymentCreate = "payment.create"
	PermPaymentEdit   = "payment.edit"
	PermPaymentDelete = "payment.delete"

	PermReportsView = "reports.view"

	PermSettingsView = "settings.view"
	PermSettingsEdit = "settings.edit"

	PermUsersView         = "users.view"
	PermUsersManageRole   = "users.manage_role"
	PermUsersManageStatus = "users.manage_status"
	PermUsersDelete       = "users.delete"

	PermNotificationView = "notification.view"

	PermTrashView    = "trash.view"
	PermTrashRestore = "trash.restore"
	PermTrashPurge   = "trash.purge"
)

// DefaultPermissions is the seeded permission catalog
func DefaultPermissions() []Permission {
	return []Permission{
		{PermBorrowerView, "Borrowers", "View Borrowers"},
		{PermBorrowerCreate, "Borrowers", "Create Borrowers"},
		{PermBorrowerEdit, "Borrowers", "Edit Borrowers"},
		{PermBorrowerDelete, "Borrowers", "Delete Borrowers"},

		{PermLoanView, "Loans", "View Loans"},
		{PermLoanCreate, "Loans", "Create Loans"},
		{PermLoanEdit, "Loans", "Edit Loans"},
		{PermLoanDelete, "Loans", "Delete Loans"},
		{PermLoanApprove, "Loans", "Approve Loans"},

		{PermPaymentView, "Payments", "View Payments"},
		{PermPaymentCreate, "Payments", "Add Payments"},
		{PermPaymentEdit, "Payments", "Edit Payments"},
		{PermPaymentDelete, "Payments", "Delete Payments"},

		{PermReportsView, "Reports", "View Reports"},

		{PermSettingsView, "Settings", "View Settings"},
		{PermSettingsEdit, "Settings", "Edit System Config"},

		{PermUsersView, "Users", "View Users"},
		{PermUsersManageRole, "Users", "Change User Role"},
		{PermUsersManageStatus, "Users", "Enable/Disable User"},
		{PermUsersDelete, "Users", "Delete Users"},

		{PermNotificationView, "Notifications", "View Notifications"},

		{PermTrashView, "Trash", "View Trash"},
		{PermTrashRestore, "Trash", "Restore From Trash"},
		{PermTrashPurge, "Trash", "Permanently Purge Trash"},
	}
}

// DefaultRoleGrants is the seeded role-permission matrix. ADMIN gets the
// whole catalog; STAFF gets a view/create/edit subset. SUPERADMIN is not
// in the matrix: it bypasses permission checks entirely.
func DefaultRoleGrants() map[Role][]string {
	all := DefaultPermissions()

	adminPerms := make([]string, 0, len(all))
	staffPerms := make([]string, 0, len(all))
	for _, p := range all {
		adminPerms = append(adminPerms, p.Code)
		if staffEligible(p.Code) {
			staffPerms = append(staffPerms, p.Code)
		}
	}

	return map[Role][]string{
		RoleAdmin: adminPerms,
		RoleStaff: staffPerms,
	}
}

func staffEligible(code string) bool {
	for _, blocked := range []string{"delete", "settings", "purge", "manage", "approve", "trash"} {
		if strings.Contains(code, blocked) {
			return false
		}
	}
	return true
}

// RolePermission is one grant in the role-permission matrix
type RolePermission struct {
	Role           Role
	PermissionCode string
}
