package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dashty/shoe-store-backend/api/middleware"
)

// requestActor resolves the authenticated user plus the request origin for
// the audit trail. UserID is uuid.Nil on unauthenticated surfaces.
func requestActor(r *http.Request) (uuid.UUID, *string, *string) {
	var ip, agent *string
	if v := middleware.ClientIP(r); v != "" {
		ip = &v
	}
	if v := r.UserAgent(); v != "" {
		agent = &v
	}
	return middleware.UserUUIDFromContext(r.Context()), ip, agent
}
