package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dashty/shoe-store-backend/api/responses"
	"github.com/dashty/shoe-store-backend/api/validators"
	expensesvc "github.com/dashty/shoe-store-backend/internal/expenses"
	"github.com/dashty/shoe-store-backend/pkg/enums"
	pkgerrors "github.com/dashty/shoe-store-backend/pkg/errors"
	"github.com/dashty/shoe-store-backend/pkg/logger"
	"github.com/dashty/shoe-store-backend/pkg/pagination"
)

type createExpenseRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Amount      string  `json:"amount" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Date        *string `json:"date,omitempty"`
}

func (req createExpenseRequest) toInput() (expensesvc.CreateInput, error) {
	category, err := enums.ParseExpenseCategory(strings.TrimSpace(req.Category))
	if err != nil {
		return expensesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	expenseType, err := enums.ParseExpenseType(strings.TrimSpace(req.Type))
	if err != nil {
		return expensesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return expensesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
	}

	input := expensesvc.CreateInput{
		Title:       validators.SanitizeString(req.Title, 200),
		Description: req.Description,
		Amount:      amount,
		Category:    category,
		Type:        expenseType,
	}
	if req.Date != nil {
		date, err := parseDateValue(*req.Date)
		if err != nil {
			return expensesvc.CreateInput{}, err
		}
		input.Date = date
	}
	return input, nil
}

func parseDateValue(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if value, err := time.Parse(time.RFC3339, raw); err == nil {
		return value, nil
	}
	value, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be RFC 3339 or YYYY-MM-DD")
	}
	return value, nil
}

func CreateExpense(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createExpenseRequest
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

		expense, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

type updateExpenseRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty"`
	Type        *string `json:"type,omitempty"`
	Date        *string `json:"date,omitempty"`
}

func (req updateExpenseRequest) toInput() (expensesvc.UpdateInput, error) {
	input := expensesvc.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return expensesvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
		}
		input.Amount = &amount
	}
	if req.Category != nil {
		category, err := enums.ParseExpenseCategory(strings.TrimSpace(*req.Category))
		if err != nil {
			return expensesvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	if req.Type != nil {
		expenseType, err := enums.ParseExpenseType(strings.TrimSpace(*req.Type))
		if err != nil {
			return expensesvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
		}
		input.Type = &expenseType
	}
	if req.Date != nil {
		date, err := parseDateValue(*req.Date)
		if err != nil {
			return expensesvc.UpdateInput{}, err
		}
		input.Date = &date
	}
	return input, nil
}

func UpdateExpense(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateExpenseRequest
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

		expense, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, expense)
	}
}

func DeleteExpense(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actor expensesvc.Actor
		actor.UserID, actor.IPAddress, actor.UserAgent = requestActor(r)

		if err := svc.Delete(r.Context(), id, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "expense deleted"})
	}
}

func GetExpense(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expense, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, expense)
	}
}

func ListExpenses(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filters expensesvc.Filters

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseExpenseCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filters.Category = &category
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			expenseType, err := enums.ParseExpenseType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type"))
				return
			}
			filters.Type = &expenseType
		}

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

// ExpenseStats aggregates totals for an explicit range, or for today or the
// current month when the period shortcut is supplied.
func ExpenseStats(svc expensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimSpace(r.URL.Query().Get("period")) {
		case "today":
			stats, err := svc.TodayStats(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, stats)
			return
		case "month":
			stats, err := svc.MonthStats(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, stats)
			return
		}

		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if from == nil || to == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "from and to are required without a period shortcut"))
			return
		}

		stats, err := svc.StatsByRange(r.Context(), *from, *to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
