package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dashty/shoe-store-backend/api/responses"
	"github.com/dashty/shoe-store-backend/api/validators"
	authsvc "github.com/dashty/shoe-store-backend/internal/auth"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/logger"
)

type registerRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	Secret      string `json:"secret" validate:"required"`
}

// Register creates a user account gated by the registration secret.
func Register(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, ip, agent := requestActor(r)
		session, err := svc.Register(r.Context(), authsvc.RegisterInput{
			Name:        validators.SanitizeString(payload.Name, 100),
			PhoneNumber: payload.PhoneNumber,
			Password:    payload.Password,
			Secret:      payload.Secret,
			IPAddress:   ip,
			UserAgent:   agent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

type loginRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

func Login(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, ip, agent := requestActor(r)
		session, err := svc.Login(r.Context(), authsvc.LoginInput{
			PhoneNumber: payload.PhoneNumber,
			Password:    payload.Password,
			IPAddress:   ip,
			UserAgent:   agent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func Refresh(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload refreshRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Refresh(r.Context(), payload.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

type forgotPasswordRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// ForgotPassword always reports success so phone numbers cannot be probed.
func ForgotPassword(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload forgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ForgotPassword(r.Context(), payload.PhoneNumber); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"message": "if the account exists, a reset token has been issued",
		})
	}
}

type verifyResetTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func VerifyResetToken(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload verifyResetTokenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valid, err := svc.VerifyResetToken(r.Context(), payload.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"valid": valid})
	}
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func ResetPassword(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resetPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResetPassword(r.Context(), payload.Token, payload.NewPassword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "password updated"})
	}
}

type adminResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// AdminResetPassword lets an admin replace another user's password directly.
func AdminResetPassword(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.URLParamUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminResetPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, _, _ := requestActor(r)
		if actorID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		if err := svc.AdminResetPassword(r.Context(), userID, payload.NewPassword, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "password updated"})
	}
}
