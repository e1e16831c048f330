package controllers

import (
	"net/http"
	"strings"

	"github.com/dashty/shoe-store-backend/api/responses"
	"github.com/dashty/shoe-store-backend/api/validators"
	activitysvc "github.com/dashty/shoe-store-backend/internal/activity"
	"github.com/dashty/shoe-store-backend/pkg/logger"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

func ListActivityLogs(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filters activitysvc.Filters

		userID, err := validators.ParseQueryUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.UserID = userID

		filters.Action = strings.TrimSpace(r.URL.Query().Get("action"))
		filters.EntityType = strings.TrimSpace(r.URL.Query().Get("entityType"))

		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.DateFrom = from

		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.DateTo = to

		params := pagination.FromQuery(r.URL.Query())
		items, total, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, items, total, params)
	}
}

func GetActivityLog(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}

// UserActivityLogs lists one user's audit trail, newest first.
func UserActivityLogs(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.URLParamUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromQuery(r.URL.Query())
		items, total, err := svc.ListByUser(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, items, total, params)
	}
}
