package service

import (
	"context"
	"strings"
	"time"

	"optimeet/core/cache"
	"optimeet/core/errors"
	"optimeet/core/logger"
	"optimeet/core/utils"
	"optimeet/modules/auth/dto"
	"optimeet/modules/auth/entity"
	"optimeet/modules/auth/repository"

	"github.com/google/uuid"
)

// AuthService handles account registration and token lifecycle
type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

// AuthServiceInterface defines the service contract
type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, rawToken string) *errors.AppError
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
}

// NewAuthService creates a new auth service
func NewAuthService(repo repository.AuthRepositoryInterface, c cache.Cache) *AuthService {
	return &AuthService{repo: repo, cache: c}
}

// Register creates an account and returns a fresh token pair
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "A valid email is required", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Name is required", nil)
	}
	if len(req.Password) < 8 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Password must be at least 8 characters", nil)
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check email", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Email is already registered", nil)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to hash password", err)
	}

	user := &entity.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create user", err)
	}

	return s.tokenPair(created)
}

// Login verifies credentials and returns a token pair. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get user", err)
	}
	if user == nil || !utils.ComparePassword(user.PasswordHash, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	return s.tokenPair(user)
}

// Refresh mints a new token pair from a valid, non-blacklisted refresh token
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, *errors.AppError) {
	claims, err := utils.ValidateAndParseToken(req.RefreshToken)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "Invalid refresh token", err)
	}

	blacklisted, cacheErr := s.cache.IsTokenBlacklisted(ctx, req.RefreshToken)
	if cacheErr != nil {
		logger.Error("AuthService:Refresh:Blacklist", cacheErr)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Refresh token has been revoked", nil)
	}

	user, dbErr := s.repo.GetUserByID(ctx, claims.UserID)
	if dbErr != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get user", dbErr)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Account no longer exists", nil)
	}

	return s.tokenPair(user)
}

// Logout blacklists the presented token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, rawToken string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(rawToken)
	if err != nil {
		// An invalid or already-expired token needs no blacklisting.
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.cache.AddToTokenBlacklist(ctx, rawToken, ttl); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to revoke token", err)
	}
	return nil
}

// Me returns the authenticated account
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}

	return dto.ToUserResponse(user), nil
}

func (s *AuthService) tokenPair(user *entity.User) (*dto.AuthResponse, *errors.AppError) {
	access, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue token", err)
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue refresh token", err)
	}

	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         dto.ToUserResponse(user),
	}, nil
}
