package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/identity"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	permRepo   identity.PermissionRepository
	jwtService *auth.JWTService
	hasher     *auth.PasswordHasher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	permRepo identity.PermissionRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		permRepo:   permRepo,
		jwtService: jwtService,
		hasher:     hasher,
		logger:     logger,
	}
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.Active {
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", req.Username))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	permissions, err := s.permissionsFor(ctx, user.Role)
	if err != nil {
		s.logger.Error("Failed to load role permissions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load permissions")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return &LoginResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserInfo(user, permissions),
	}, nil
}

// Refresh rotates a token pair using a valid refresh token. Permissions
// are reloaded so grants revoked since login drop out.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		switch err {
		case auth.ErrExpiredToken:
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		case auth.ErrMaxRefreshExceeded:
			return nil, shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	permissions, err := s.permissionsFor(ctx, user.Role)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load permissions")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, string(user.Role), permissions)
	if err != nil {
		switch err {
		case auth.ErrExpiredToken:
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		case auth.ErrMaxRefreshExceeded:
			return nil, shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	return &RefreshResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// CurrentUser returns the authenticated user's profile and permissions
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	permissions, err := s.permissionsFor(ctx, user.Role)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load permissions")
	}
	info := ToUserInfo(user, permissions)
	return &info, nil
}

// ChangePassword changes the current user's password after verifying the
// old one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !s.hasher.Verify(user.PasswordHash, req.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Old password is incorrect")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to hash password")
	}
	if err := user.SetPasswordHash(hash); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

// permissionsFor resolves the effective permission set for a role.
// SUPERADMIN holds the whole catalog implicitly.
func (s *AuthService) permissionsFor(ctx context.Context, role identity.Role) ([]string, error) {
	if role == identity.RoleSuperAdmin {
		catalog := identity.DefaultPermissions()
		codes := make([]string, len(catalog))
		for i, p := range catalog {
			codes[i] = p.Code
		}
		return codes, nil
	}
	return s.permRepo.GrantsForRole(ctx, role)
}
