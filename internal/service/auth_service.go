package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ewheels/service-desk/internal/auth"
	"github.com/ewheels/service-desk/internal/config"
	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/repository"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

const resetTokenPrefix = "password_reset:"

// AuthService handles staff authentication.
type AuthService struct {
	cfg    config.AuthConfig
	staff  repository.StaffRepository
	tokens *auth.TokenManager
	redis  *redis.Client
}

// LoginResult carries a signed token and the authenticated staff member.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Staff     *domain.StaffMember
}

// NewAuthService constructs the service. The Redis client backs short-lived
// password reset tokens.
func NewAuthService(cfg config.AuthConfig, staff repository.StaffRepository, redisClient *redis.Client) *AuthService {
	return &AuthService{
		cfg:    cfg,
		staff:  staff,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		redis:  redisClient,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, apperrors.NewUnauthorized("staff account disabled")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	token, expiresAt, err := s.tokens.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Staff: staff}, nil
}

// ChangePassword rotates the password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, staffID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("new password must be at least 8 characters", nil)
	}
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff", nil)
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(staff.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("current password incorrect")
	}
	hashed, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	return apperrors.MapError(s.staff.UpdatePassword(ctx, staffID, hashed))
}

// RequestPasswordReset issues a single-use reset token with a TTL. The
// token is returned to the caller for out-of-band delivery; whether the
// email exists is never revealed.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	staff, err := s.staff.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.MapError(err)
	}
	token := uuid.NewString()
	if err := s.redis.Set(ctx, resetTokenPrefix+token, staff.ID, s.cfg.PasswordResetTTL()).Err(); err != nil {
		return "", apperrors.MapError(err)
	}
	return token, nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("new password must be at least 8 characters", nil)
	}
	key := resetTokenPrefix + token
	staffID, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.NewUnauthorized("invalid or expired reset token")
		}
		return apperrors.MapError(err)
	}
	hashed, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.staff.UpdatePassword(ctx, staffID, hashed); err != nil {
		return apperrors.MapError(err)
	}
	_ = s.redis.Del(ctx, key).Err()
	return nil
}
