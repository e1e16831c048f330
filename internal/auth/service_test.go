package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dashty/shoe-store-backend/internal/users"
	pkgauth "github.com/dashty/shoe-store-backend/pkg/auth"
	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
)

const registrationSecret = "let-me-in"

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Repo: users.NewRepository(conn),
		JWT: config.JWTConfig{
			Secret:                 "access-secret",
			RefreshSecret:          "refresh-secret",
			Issuer:                 "shoe-store",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 10080,
		},
		Auth: config.AuthConfig{
			RegistrationSecret: registrationSecret,
			ResetTokenTTL:      time.Hour,
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func register(t *testing.T, svc Service, phone string) Session {
	t.Helper()
	session, err := svc.Register(context.Background(), RegisterInput{
		Name:        "Dashty",
		PhoneNumber: phone,
		Password:    "secret1",
		Secret:      registrationSecret,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return session
}

func TestRegisterRejectsWrongSecret(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:        "Dashty",
		PhoneNumber: "07701234567",
		Password:    "secret1",
		Secret:      "wrong",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRegisterIssuesTokensAndUserRole(t *testing.T) {
	svc, _ := newTestService(t)
	session := register(t, svc, "07701234567")

	if session.Tokens.AccessToken == "" || session.Tokens.RefreshToken == "" {
		t.Fatal("expected both tokens minted")
	}
	if session.User.Role != "user" {
		t.Fatalf("expected user role, got %s", session.User.Role)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "07701234567")

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:        "Other",
		PhoneNumber: "07701234567",
		Password:    "secret1",
		Secret:      registrationSecret,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "07701234567")

	session, err := svc.Login(context.Background(), LoginInput{
		PhoneNumber: "07701234567",
		Password:    "secret1",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Tokens.AccessToken == "" {
		t.Fatal("expected access token")
	}
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "07701234567")

	_, err := svc.Login(context.Background(), LoginInput{
		PhoneNumber: "07701234567",
		Password:    "nope123",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() == "Account is deactivated" {
		t.Fatal("wrong password must not leak account state")
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, conn := newTestService(t)
	session := register(t, svc, "07701234567")

	err := conn.Model(&models.User{}).Where("id = ?", session.User.ID).
		Update("is_active", false).Error
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginInput{
		PhoneNumber: "07701234567",
		Password:    "secret1",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != "Account is deactivated" {
		t.Fatalf("expected deactivation message, got %q", typed.Message())
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestService(t)
	session := register(t, svc, "07701234567")

	_, err := svc.Refresh(context.Background(), session.Tokens.AccessToken)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for access token, got %v", err)
	}
}

func TestRefreshMintsNewPair(t *testing.T) {
	svc, _ := newTestService(t)
	session := register(t, svc, "07701234567")

	refreshed, err := svc.Refresh(context.Background(), session.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.Tokens.AccessToken == "" || refreshed.Tokens.RefreshToken == "" {
		t.Fatal("expected a full new pair")
	}
}

func TestRefreshDeactivatedUser(t *testing.T) {
	svc, conn := newTestService(t)
	session := register(t, svc, "07701234567")

	err := conn.Model(&models.User{}).Where("id = ?", session.User.ID).
		Update("is_active", false).Error
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = svc.Refresh(context.Background(), session.Tokens.RefreshToken)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestForgotPasswordIsAlwaysSilent(t *testing.T) {
	svc, conn := newTestService(t)
	session := register(t, svc, "07701234567")
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "07700000000"); err != nil {
		t.Fatalf("unknown phone should not error: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "07701234567"); err != nil {
		t.Fatalf("known phone: %v", err)
	}

	var user models.User
	if err := conn.First(&user, "id = ?", session.User.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.ResetToken == nil || len(*user.ResetToken) != 64 {
		t.Fatalf("expected 64-char reset token, got %v", user.ResetToken)
	}
	if user.ResetTokenExpiry == nil || !user.ResetTokenExpiry.After(time.Now()) {
		t.Fatal("expected future expiry")
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, conn := newTestService(t)
	session := register(t, svc, "07701234567")
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "07701234567"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	var user models.User
	if err := conn.First(&user, "id = ?", session.User.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	token := *user.ResetToken

	ok, err := svc.VerifyResetToken(ctx, token)
	if err != nil || !ok {
		t.Fatalf("expected token valid, ok=%v err=%v", ok, err)
	}

	if err := svc.ResetPassword(ctx, token, "short"); err == nil {
		t.Fatal("expected short password rejected")
	}
	if err := svc.ResetPassword(ctx, token, "newpass1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	// token is single-use
	if ok, _ := svc.VerifyResetToken(ctx, token); ok {
		t.Fatal("expected token cleared after reset")
	}

	if _, err := svc.Login(ctx, LoginInput{PhoneNumber: "07701234567", Password: "newpass1"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{PhoneNumber: "07701234567", Password: "secret1"}); err == nil {
		t.Fatal("old password must stop working")
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, conn := newTestService(t)
	session := register(t, svc, "07701234567")
	ctx := context.Background()

	token := "a1b2c3"
	past := time.Now().Add(-time.Minute)
	err := conn.Model(&models.User{}).Where("id = ?", session.User.ID).
		Updates(map[string]any{"reset_token": token, "reset_token_expiry": past}).Error
	if err != nil {
		t.Fatalf("seed expired token: %v", err)
	}

	if ok, _ := svc.VerifyResetToken(ctx, token); ok {
		t.Fatal("expected expired token invalid")
	}
	resetErr := svc.ResetPassword(ctx, token, "newpass1")
	typed := pkgerrors.As(resetErr)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", resetErr)
	}
}

func TestAdminResetPassword(t *testing.T) {
	svc, _ := newTestService(t)
	session := register(t, svc, "07701234567")
	ctx := context.Background()

	err := svc.AdminResetPassword(ctx, session.User.ID, "newpass1", uuid.New())
	if err != nil {
		t.Fatalf("admin reset: %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{PhoneNumber: "07701234567", Password: "newpass1"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestAccessTokenCarriesIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	session := register(t, svc, "07701234567")

	claims, err := pkgauth.ParseAccessToken(config.JWTConfig{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "shoe-store",
	}, session.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != session.User.ID || claims.PhoneNumber != "07701234567" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}
