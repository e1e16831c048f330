package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dashty/shoe-store-backend/api/responses"
	"github.com/dashty/shoe-store-backend/api/validators"
	shoesvc "github.com/dashty/shoe-store-backend/internal/shoes"
	"github.com/dashty/shoe-store-backend/pkg/enums"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/logger"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type createShoeRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Brand       string   `json:"brand" validate:"required,min=1,max=100"`
	Category    string   `json:"category" validate:"required"`
	Sizes       []string `json:"sizes" validate:"required,min=1,dive,required"`
	Price       string   `json:"price" validate:"required"`
	CostPrice   string   `json:"costPrice" validate:"required"`
	SKU         string   `json:"sku,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
}

func (req createShoeRequest) toInput() (shoesvc.CreateInput, error) {
	category, err := enums.ParseShoeCategory(strings.TrimSpace(req.Category))
	if err != nil {
		return shoesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return shoesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	costPrice, err := decimal.NewFromString(req.CostPrice)
	if err != nil {
		return shoesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cost price")
	}
	return shoesvc.CreateInput{
		Name:        validators.SanitizeString(req.Name, 200),
		Brand:       validators.SanitizeString(req.Brand, 100),
		Category:    category,
		Sizes:       req.Sizes,
		Price:       price,
		CostPrice:   costPrice,
		SKU:         strings.TrimSpace(req.SKU),
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}, nil
}

func CreateShoe(svc shoesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createShoeRequest
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

		shoe, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, shoe)
	}
}

type updateShoeRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Brand       *string  `json:"brand,omitempty" validate:"omitempty,min=1,max=100"`
	Category    *string  `json:"category,omitempty"`
	Sizes       []string `json:"sizes,omitempty" validate:"omitempty,min=1,dive,required"`
	Price       *string  `json:"price,omitempty"`
	CostPrice   *string  `json:"costPrice,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
}

func (req updateShoeRequest) toInput() (shoesvc.UpdateInput, error) {
	input := shoesvc.UpdateInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Sizes:       req.Sizes,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.Category != nil {
		category, err := enums.ParseShoeCategory(strings.TrimSpace(*req.Category))
		if err != nil {
			return shoesvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return shoesvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}
	if req.CostPrice != nil {
		costPrice, err := decimal.NewFromString(*req.CostPrice)
		if err != nil {
			return shoesvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cost price")
		}
		input.CostPrice = &costPrice
	}
	return input, nil
}

func UpdateShoe(svc shoesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateShoeRequest
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

		shoe, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shoe)
	}
}

func DeleteShoe(svc shoesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actor shoesvc.Actor
		actor.UserID, actor.IPAddress, actor.UserAgent = requestActor(r)

		if err := svc.Delete(r.Context(), id, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "shoe deleted"})
	}
}

func GetShoe(svc shoesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shoe, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shoe)
	}
}

func ListShoes(svc shoesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := shoesvc.Filters{
			Brand:  strings.TrimSpace(r.URL.Query().Get("brand")),
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseShoeCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filters.Category = &category
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
