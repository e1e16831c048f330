package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashty/shoe-store-backend/api/responses"
	"github.com/dashty/shoe-store-backend/api/validators"
	purchasesvc "github.com/dashty/shoe-store-backend/internal/purchases"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/logger"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type createPurchaseRequest struct {
	SupplierID   uuid.UUID `json:"supplierId" validate:"required"`
	ShoeID       uuid.UUID `json:"shoeId" validate:"required"`
	Size         string    `json:"size" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,gt=0"`
	UnitCost     string    `json:"unitCost" validate:"required"`
	IsCredit     bool      `json:"isCredit"`
	PaidAmount   *string   `json:"paidAmount,omitempty"`
	IsTodo       bool      `json:"isTodo"`
	Notes        *string   `json:"notes,omitempty"`
	PurchaseDate *string   `json:"purchaseDate,omitempty"`
	AddToStock   bool      `json:"addToStock"`
}

func (req createPurchaseRequest) toInput() (purchasesvc.CreateInput, error) {
	unitCost, err := decimal.NewFromString(req.UnitCost)
	if err != nil {
		return purchasesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit cost")
	}

	input := purchasesvc.CreateInput{
		SupplierID: req.SupplierID,
		ShoeID:     req.ShoeID,
		Size:       req.Size,
		Quantity:   req.Quantity,
		UnitCost:   unitCost,
		IsCredit:   req.IsCredit,
		IsTodo:     req.IsTodo,
		Notes:      req.Notes,
		AddToStock: req.AddToStock,
	}
	if req.PaidAmount != nil {
		paid, err := decimal.NewFromString(*req.PaidAmount)
		if err != nil {
			return purchasesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid paid amount")
		}
		input.PaidAmount = paid
	}
	if req.PurchaseDate != nil {
		date, err := parseDateValue(*req.PurchaseDate)
		if err != nil {
			return purchasesvc.CreateInput{}, err
		}
		input.PurchaseDate = date
	} else {
		input.PurchaseDate = time.Now()
	}
	return input, nil
}

// CreatePurchase records a supplier purchase, optionally moving the boxes
// straight into stock.
func CreatePurchase(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPurchaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Actor.UserID, input.Actor.IPAddress, input.Actor.UserAgent = requestActor(r)

		purchase, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, purchase)
	}
}

type updatePurchaseRequest struct {
	Size         *string `json:"size,omitempty"`
	Quantity     *int    `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitCost     *string `json:"unitCost,omitempty"`
	IsCredit     *bool   `json:"isCredit,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	PurchaseDate *string `json:"purchaseDate,omitempty"`
}

func (req updatePurchaseRequest) toInput() (purchasesvc.UpdateInput, error) {
	input := purchasesvc.UpdateInput{
		Size:     req.Size,
		Quantity: req.Quantity,
		IsCredit: req.IsCredit,
		Notes:    req.Notes,
	}
	if req.UnitCost != nil {
		unitCost, err := decimal.NewFromString(*req.UnitCost)
		if err != nil {
			return purchasesvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit cost")
		}
		input.UnitCost = &unitCost
	}
	if req.PurchaseDate != nil {
		date, err := parseDateValue(*req.PurchaseDate)
		if err != nil {
			return purchasesvc.UpdateInput{}, err
		}
		input.PurchaseDate = &date
	}
	return input, nil
}

func UpdatePurchase(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePurchaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Actor.UserID, input.Actor.IPAddress, input.Actor.UserAgent = requestActor(r)

		purchase, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, purchase)
	}
}

func DeletePurchase(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actor purchasesvc.Actor
		actor.UserID, actor.IPAddress, actor.UserAgent = requestActor(r)

		if err := svc.Delete(r.Context(), id, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "purchase deleted"})
	}
}

func GetPurchase(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchase, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, purchase)
	}
}

func ListPurchases(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filters purchasesvc.Filters

		supplierID, err := validators.ParseQueryUUID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.SupplierID = supplierID

		shoeID, err := validators.ParseQueryUUID(r, "shoeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.ShoeID = shoeID

		filters.CreditOnly = r.URL.Query().Get("credit") == "true"
		filters.TodoOnly = r.URL.Query().Get("todo") == "true"

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

func PurchasesBySupplier(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func CreditPurchasesBySupplier(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := validators.URLParamUUID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromQuery(r.URL.Query())
		items, total, err := svc.CreditBySupplier(r.Context(), supplierID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, items, total, params)
	}
}

// PurchaseBalance reports the remaining debt on one purchase.
func PurchaseBalance(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.Balance(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, balance)
	}
}

// PurchaseTodos lists open todo purchases grouped by supplier.
func PurchaseTodos(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := svc.Todos(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, groups)
	}
}

func MarkPurchaseTodo(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return markTodoHandler(svc, logg, true)
}

func MarkPurchaseDone(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return markTodoHandler(svc, logg, false)
}

func markTodoHandler(svc purchasesvc.Service, logg *logger.Logger, todo bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actor purchasesvc.Actor
		actor.UserID, actor.IPAddress, actor.UserAgent = requestActor(r)

		var purchase any
		if todo {
			purchase, err = svc.MarkTodo(r.Context(), id, actor)
		} else {
			purchase, err = svc.MarkDone(r.Context(), id, actor)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, purchase)
	}
}
