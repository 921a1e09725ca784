package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/identity"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles operator account management and the role-permission
// matrix
type UserService struct {
	userRepo identity.UserRepository
	permRepo identity.PermissionRepository
	hasher   *auth.PasswordHasher
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	permRepo identity.PermissionRepository,
	hasher *auth.PasswordHasher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		permRepo: permRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// Bootstrap seeds the permission catalog and, when no SUPERADMIN exists
// yet, creates the bootstrap account. This is the only code path that can
// produce a SUPERADMIN.
func (s *UserService) Bootstrap(ctx context.Context, username, email, password string) error {
	if err := s.permRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	count, err := s.userRepo.CountByRole(ctx, identity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		s.logger.Warn("No SUPERADMIN exists and no bootstrap password configured, skipping bootstrap")
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	user, err := identity.NewUser(username, email, hash, identity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Bootstrap SUPERADMIN created", zap.String("username", username))
	return nil
}

// Create adds an ADMIN or STAFF account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to hash password")
	}
	user, err := identity.NewUser(req.Username, req.Email, hash, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	info := ToUserInfo(user, nil)
	return &info, nil
}

// List returns users matching the filter
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserInfo, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]UserInfo, len(users))
	for i := range users {
		infos[i] = ToUserInfo(&users[i], nil)
	}
	return infos, total, nil
}

// ChangeRole assigns a new role to a user. SUPERADMIN is neither a valid
// source nor target.
func (s *UserService) ChangeRole(ctx context.Context, userID uuid.UUID, req ChangeRoleRequest) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.ChangeRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User role changed",
		zap.String("user_id", userID.String()),
		zap.String("role", req.Role))

	info := ToUserInfo(user, nil)
	return &info, nil
}

// SetActive enables or disables an account
func (s *UserService) SetActive(ctx context.Context, userID uuid.UUID, active bool) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active {
		user.Activate()
	} else if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	info := ToUserInfo(user, nil)
	return &info, nil
}

// Delete removes an account. SUPERADMIN cannot be deleted.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == identity.RoleSuperAdmin {
		return shared.NewBusinessRuleError("SUPERADMIN cannot be deleted")
	}
	return s.userRepo.Delete(ctx, userID)
}

// Permissions returns the seeded permission catalog
func (s *UserService) Permissions(ctx context.Context) ([]PermissionResponse, error) {
	catalog, err := s.permRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]PermissionResponse, len(catalog))
	for i, p := range catalog {
		responses[i] = PermissionResponse{Code: p.Code, Category: p.Category, Description: p.Description}
	}
	return responses, nil
}

// RoleGrants returns the permission codes granted to one role
func (s *UserService) RoleGrants(ctx context.Context, role string) (*RoleGrantsResponse, error) {
	r := identity.Role(role)
	if !r.IsValid() || r == identity.RoleSuperAdmin {
		return nil, shared.NewValidationError("Invalid role")
	}
	grants, err := s.permRepo.GrantsForRole(ctx, r)
	if err != nil {
		return nil, err
	}
	return &RoleGrantsResponse{Role: role, Permissions: grants}, nil
}

// Grant adds one permission to a role
func (s *UserService) Grant(ctx context.Context, role string, req GrantRequest) error {
	r := identity.Role(role)
	if !r.IsValid() || r == identity.RoleSuperAdmin {
		return shared.NewValidationError("Invalid role")
	}
	return s.permRepo.Grant(ctx, r, req.Permission)
}

// Revoke removes one permission from a role
func (s *UserService) Revoke(ctx context.Context, role string, req GrantRequest) error {
	r := identity.Role(role)
	if !r.IsValid() || r == identity.RoleSuperAdmin {
		return shared.NewValidationError("Invalid role")
	}
	return s.permRepo.Revoke(ctx, r, req.Permission)
}
