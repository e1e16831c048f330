package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashty/shoe-store-backend/api/responses"
	"github.com/dashty/shoe-store-backend/api/validators"
	paymentsvc "github.com/dashty/shoe-store-backend/internal/payments"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/logger"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type createPaymentRequest struct {
	SupplierID  uuid.UUID  `json:"supplierId" validate:"required"`
	PurchaseID  *uuid.UUID `json:"purchaseId,omitempty"`
	Amount      string     `json:"amount" validate:"required"`
	PaymentDate *string    `json:"paymentDate,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// CreatePayment records money handed to a supplier, optionally applied
// against one purchase's balance.
func CreatePayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		input := paymentsvc.CreateInput{
			SupplierID: payload.SupplierID,
			PurchaseID: payload.PurchaseID,
			Amount:     amount,
			Notes:      payload.Notes,
		}
		if payload.PaymentDate != nil {
			date, err := parseDateValue(*payload.PaymentDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.PaymentDate = date
		} else {
			input.PaymentDate = time.Now()
		}
		input.Actor.UserID, input.Actor.IPAddress, input.Actor.UserAgent = requestActor(r)

		payment, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

type updatePaymentRequest struct {
	PurchaseID    *uuid.UUID `json:"purchaseId,omitempty"`
	ClearPurchase bool       `json:"clearPurchase,omitempty"`
	Amount        *string    `json:"amount,omitempty"`
	PaymentDate   *string    `json:"paymentDate,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

func UpdatePayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := paymentsvc.UpdateInput{
			PurchaseID:    payload.PurchaseID,
			ClearPurchase: payload.ClearPurchase,
			Notes:         payload.Notes,
		}
		if payload.Amount != nil {
			amount, err := decimal.NewFromString(*payload.Amount)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
				return
			}
			input.Amount = &amount
		}
		if payload.PaymentDate != nil {
			date, err := parseDateValue(*payload.PaymentDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.PaymentDate = &date
		}
		input.Actor.UserID, input.Actor.IPAddress, input.Actor.UserAgent = requestActor(r)

		payment, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, payment)
	}
}

func DeletePayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actor paymentsvc.Actor
		actor.UserID, actor.IPAddress, actor.UserAgent = requestActor(r)

		if err := svc.Delete(r.Context(), id, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "payment deleted"})
	}
}

func GetPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, payment)
	}
}

func ListPayments(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filters paymentsvc.Filters

		supplierID, err := validators.ParseQueryUUID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.SupplierID = supplierID

		purchaseID, err := validators.ParseQueryUUID(r, "purchaseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.PurchaseID = purchaseID

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

func PaymentsBySupplier(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := validators.URLParamUUID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromQuery(r.URL.Query())
		items, total, err := svc.BySupplier(r.Context(), supplierID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, items, total, params)
	}
}
