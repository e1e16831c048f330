package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dashty/shoe-store-backend/api/responses"
	"github.com/dashty/shoe-store-backend/pkg/enums"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/logger"
)

// RequireAdmin rejects requests whose authenticated role is not admin.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != string(enums.RoleAdmin) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OwnerOrAdmin allows admins through unconditionally and other callers only
// when the URL parameter matches their own user id.
func OwnerOrAdmin(param string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) == string(enums.RoleAdmin) {
				next.ServeHTTP(w, r)
				return
			}
			if chi.URLParam(r, param) != UserIDFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access restricted to the owner"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
