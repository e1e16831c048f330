package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashty/shoe-store-backend/api/responses"
	"github.com/dashty/shoe-store-backend/api/validators"
	salesvc "github.com/dashty/shoe-store-backend/internal/sales"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/logger"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type createSaleRequest struct {
	ShoeID    uuid.UUID `json:"shoeId" validate:"required"`
	Size      string    `json:"size" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice *string   `json:"unitPrice,omitempty"`
	IsOnline  bool      `json:"isOnline"`
}

// CreateSale records a sale and deducts the matching stock atomically.
func CreateSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := salesvc.CreateInput{
			ShoeID:   payload.ShoeID,
			Size:     payload.Size,
			Quantity: payload.Quantity,
			IsOnline: payload.IsOnline,
		}
		if payload.UnitPrice != nil {
			price, err := decimal.NewFromString(*payload.UnitPrice)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit price"))
				return
			}
			input.UnitPrice = &price
		}
		input.Actor.UserID, input.Actor.IPAddress, input.Actor.UserAgent = requestActor(r)

		sale, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

// DeleteSale reverses a sale, restoring the stock it consumed.
func DeleteSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actor salesvc.Actor
		actor.UserID, actor.IPAddress, actor.UserAgent = requestActor(r)

		if err := svc.Delete(r.Context(), id, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "sale deleted"})
	}
}

func DeleteAllSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var actor salesvc.Actor
		actor.UserID, actor.IPAddress, actor.UserAgent = requestActor(r)

		deleted, err := svc.DeleteAll(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"deleted": deleted})
	}
}

func DeleteAllOnlineSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var actor salesvc.Actor
		actor.UserID, actor.IPAddress, actor.UserAgent = requestActor(r)

		deleted, err := svc.DeleteAllOnline(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"deleted": deleted})
	}
}

func GetSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sale)
	}
}

func ListSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := saleFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromQuery(r.URL.Query())
		items, total, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, items, total, params)
	}
}

func saleFiltersFromQuery(r *http.Request) (salesvc.Filters, error) {
	var filters salesvc.Filters

	shoeID, err := validators.ParseQueryUUID(r, "shoeId")
	if err != nil {
		return filters, err
	}
	filters.ShoeID = shoeID

	userID, err := validators.ParseQueryUUID(r, "userId")
	if err != nil {
		return filters, err
	}
	filters.UserID = userID

	filters.OnlineOnly = r.URL.Query().Get("online") == "true"

	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from

	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return filters, err
	}
	filters.DateTo = to

	return filters, nil
}

func TodaySales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := pagination.FromQuery(r.URL.Query())
		items, total, err := svc.Today(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, items, total, params)
	}
}

func SalesStats(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// UserSalesStats reports one seller's daily, weekly and monthly figures.
func UserSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.URLParamUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromQuery(r.URL.Query())
		items, total, err := svc.List(r.Context(), salesvc.Filters{UserID: &userID}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, items, total, params)
	}
}

func UserSalesStats(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.URLParamUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.StatsForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
