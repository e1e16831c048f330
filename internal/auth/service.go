package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/internal/users"
	pkgauth "github.com/dashty/shoe-store-backend/pkg/auth"
	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/dashty/shoe-store-backend/pkg/db"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/enums"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/security"
)

const minPasswordLength = 6

// Service exposes authentication operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (Session, error)
	Login(ctx context.Context, input LoginInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	ForgotPassword(ctx context.Context, phoneNumber string) error
	VerifyResetToken(ctx context.Context, token string) (bool, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	AdminResetPassword(ctx context.Context, userID uuid.UUID, newPassword string, actorID uuid.UUID) error
}

type service struct {
	repo     users.Repository
	jwt      config.JWTConfig
	auth     config.AuthConfig
	password config.PasswordConfig
	recorder *activity.Recorder
	now      func() time.Time
}

// ServiceParams collects the auth service dependencies.
type ServiceParams struct {
	Repo     users.Repository
	JWT      config.JWTConfig
	Auth     config.AuthConfig
	Password config.PasswordConfig
	Recorder *activity.Recorder
}

// NewService builds the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.JWT.Secret == "" || params.JWT.RefreshSecret == "" {
		return nil, fmt.Errorf("jwt secrets required")
	}
	return &service{
		repo:     params.Repo,
		jwt:      params.JWT,
		auth:     params.Auth,
		password: params.Password,
		recorder: params.Recorder,
		now:      time.Now,
	}, nil
}

// Register creates a "user"-role account. The registration secret gates the
// whole endpoint; role is never caller-controlled.
func (s *service) Register(ctx context.Context, input RegisterInput) (Session, error) {
	if s.auth.RegistrationSecret == "" ||
		subtle.ConstantTimeCompare([]byte(input.Secret), []byte(s.auth.RegistrationSecret)) != 1 {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid registration secret")
	}
	if strings.TrimSpace(input.Name) == "" {
		return Session{}, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if !users.ValidPhone(input.PhoneNumber) {
		return Session{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid phone number")
	}
	if len(input.Password) < minPasswordLength {
		return Session{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user, err := s.repo.Create(ctx, &models.User{
		Name:         strings.TrimSpace(input.Name),
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
		Role:         enums.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return Session{}, pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
		}
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}

	session, err := s.session(user)
	if err != nil {
		return Session{}, err
	}
	s.record(ctx, user.ID, activity.ActionCreate, "registered account", input.IPAddress, input.UserAgent)
	return session, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (Session, error) {
	user, err := s.repo.FindByPhone(ctx, input.PhoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid phone number or password")
		}
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid phone number or password")
	}
	if !user.IsActive {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Account is deactivated")
	}

	session, err := s.session(user)
	if err != nil {
		return Session{}, err
	}
	s.record(ctx, user.ID, activity.ActionLogin, "logged in", input.IPAddress, input.UserAgent)
	return session, nil
}

// Refresh mints a fresh pair after re-checking the account still exists and
// is active; a deactivated user cannot outlive their access token.
func (s *service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := pkgauth.ParseRefreshToken(s.jwt, refreshToken)
	if err != nil {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	if !user.IsActive {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Account is deactivated")
	}

	return s.session(user)
}

// ForgotPassword answers identically whether or not the phone number exists.
func (s *service) ForgotPassword(ctx context.Context, phoneNumber string) error {
	user, err := s.repo.FindByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	if !user.IsActive {
		return nil
	}

	token, err := security.GenerateResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating reset token")
	}

	ttl := s.auth.ResetTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	expiry := s.now().Add(ttl)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := s.repo.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing reset token")
	}
	return nil
}

func (s *service) VerifyResetToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	user, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up reset token")
	}
	if user.ResetTokenExpiry == nil || s.now().After(*user.ResetTokenExpiry) {
		return false, nil
	}
	return true, nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	user, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up reset token")
	}
	if user.ResetTokenExpiry == nil || s.now().After(*user.ResetTokenExpiry) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
	}

	hash, err := security.HashPassword(newPassword, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating password")
	}
	s.record(ctx, user.ID, activity.ActionUpdate, "reset password", nil, nil)
	return nil
}

// AdminResetPassword sets a user's password directly, bypassing the token flow.
func (s *service) AdminResetPassword(ctx context.Context, userID uuid.UUID, newPassword string, actorID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if len(newPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	hash, err := security.HashPassword(newPassword, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating password")
	}
	s.record(ctx, actorID, activity.ActionUpdate,
		fmt.Sprintf("reset password for user %s", userID), nil, nil)
	return nil
}

func (s *service) session(user *models.User) (Session, error) {
	pair, err := pkgauth.MintPair(s.jwt, s.now(), pkgauth.TokenPayload{
		UserID:      user.ID,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	})
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting tokens")
	}
	return Session{User: users.ToView(user), Tokens: pair}, nil
}

func (s *service) record(ctx context.Context, userID uuid.UUID, action, description string, ip, agent *string) {
	if userID == uuid.Nil {
		return
	}
	s.recorder.Record(ctx, activity.Entry{
		UserID:      userID,
		Action:      action,
		EntityType:  "user",
		EntityID:    &userID,
		Description: &description,
		IPAddress:   ip,
		UserAgent:   agent,
	})
}
