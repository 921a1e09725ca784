package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/identity"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/infrastructure/auth"
	"github.com/spf-lend/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPermissionRepository is a mock implementation of identity.PermissionRepository
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) FindAll(ctx context.Context) ([]identity.Permission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) GrantsForRole(ctx context.Context, role identity.Role) ([]string, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPermissionRepository) Grant(ctx context.Context, role identity.Role, code string) error {
	args := m.Called(ctx, role, code)
	return args.Error(0)
}

func (m *MockPermissionRepository) Revoke(ctx context.Context, role identity.Role, code string) error {
	args := m.Called(ctx, role, code)
	return args.Error(0)
}

func (m *MockPermissionRepository) SeedDefaults(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var testHasher = auth.NewPasswordHasher()

func createTestUser(t *testing.T, role identity.Role, password string) *identity.User {
	t.Helper()
	hash, err := testHasher.Hash(password)
	require.NoError(t, err)
	user, err := identity.NewUser("testuser", "test@example.com", hash, role)
	require.NoError(t, err)
	return user
}

func createAuthService(userRepo *MockUserRepository, permRepo *MockPermissionRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
	return NewAuthService(userRepo, permRepo, jwtService, testHasher, zap.NewNop())
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	user := createTestUser(t, identity.RoleAdmin, "Password123")
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	permRepo.On("GrantsForRole", ctx, identity.RoleAdmin).
		Return([]string{identity.PermLoanView, identity.PermLoanCreate}, nil)

	resp, err := svc.Login(ctx, LoginRequest{Username: "testuser", Password: "Password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "ADMIN", resp.User.Role)
	assert.Contains(t, resp.User.Permissions, identity.PermLoanView)

	userRepo.AssertExpectations(t)
	permRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	user := createTestUser(t, identity.RoleAdmin, "Password123")
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)

	_, err := svc.Login(ctx, LoginRequest{Username: "testuser", Password: "wrong"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	userRepo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

	_, err := svc.Login(ctx, LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	user := createTestUser(t, identity.RoleStaff, "Password123")
	require.NoError(t, user.Deactivate())
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)

	_, err := svc.Login(ctx, LoginRequest{Username: "testuser", Password: "Password123"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
}

func TestAuthService_Login_SuperAdminGetsFullCatalog(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	user := createTestUser(t, identity.RoleSuperAdmin, "Password123")
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)

	resp, err := svc.Login(ctx, LoginRequest{Username: "testuser", Password: "Password123"})
	require.NoError(t, err)
	assert.Len(t, resp.User.Permissions, len(identity.DefaultPermissions()))

	// the matrix is never consulted for SUPERADMIN
	permRepo.AssertNotCalled(t, "GrantsForRole", mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	user := createTestUser(t, identity.RoleStaff, "Password123")
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	permRepo.On("GrantsForRole", ctx, identity.RoleStaff).
		Return([]string{identity.PermLoanView}, nil)

	login, err := svc.Login(ctx, LoginRequest{Username: "testuser", Password: "Password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	_, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: "not-a-token"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
}

func TestAuthService_Refresh_DeactivatedAccount(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	user := createTestUser(t, identity.RoleStaff, "Password123")
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	permRepo.On("GrantsForRole", ctx, identity.RoleStaff).Return([]string{}, nil)

	login, err := svc.Login(ctx, LoginRequest{Username: "testuser", Password: "Password123"})
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	user := createTestUser(t, identity.RoleAdmin, "OldPassword1")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		OldPassword: "OldPassword1",
		NewPassword: "NewPassword1",
	})
	require.NoError(t, err)
	assert.True(t, testHasher.Verify(user.PasswordHash, "NewPassword1"))
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := createAuthService(userRepo, permRepo)

	user := createTestUser(t, identity.RoleAdmin, "OldPassword1")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "NewPassword1",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Bootstrap_CreatesSuperAdminOnce(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := NewUserService(userRepo, permRepo, testHasher, zap.NewNop())

	permRepo.On("SeedDefaults", ctx).Return(nil)
	userRepo.On("CountByRole", ctx, identity.RoleSuperAdmin).Return(int64(0), nil)
	userRepo.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
		return u.Role == identity.RoleSuperAdmin && u.Username == "superadmin"
	})).Return(nil)

	err := svc.Bootstrap(ctx, "superadmin", "superadmin@localhost", "bootstrap-pass")
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestUserService_Bootstrap_SkipsWhenSuperAdminExists(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := NewUserService(userRepo, permRepo, testHasher, zap.NewNop())

	permRepo.On("SeedDefaults", ctx).Return(nil)
	userRepo.On("CountByRole", ctx, identity.RoleSuperAdmin).Return(int64(1), nil)

	err := svc.Bootstrap(ctx, "superadmin", "superadmin@localhost", "bootstrap-pass")
	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_ChangeRole_SuperAdminImmutable(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := NewUserService(userRepo, permRepo, testHasher, zap.NewNop())

	user := createTestUser(t, identity.RoleSuperAdmin, "Password123")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	_, err := svc.ChangeRole(ctx, user.ID, ChangeRoleRequest{Role: "ADMIN"})
	require.Error(t, err)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Delete_SuperAdminProtected(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	permRepo := new(MockPermissionRepository)
	svc := NewUserService(userRepo, permRepo, testHasher, zap.NewNop())

	user := createTestUser(t, identity.RoleSuperAdmin, "Password123")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	err := svc.Delete(ctx, user.ID)
	require.Error(t, err)
	userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
