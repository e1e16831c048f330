package expenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashty/shoe-store-backend/pkg/enums"
)

// Actor identifies who performed a mutation, for the activity trail.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// CreateInput carries a new expense.
type CreateInput struct {
	Title       string
	Description *string
	Amount      decimal.Decimal
	Category    enums.ExpenseCategory
	Type        enums.ExpenseType
	Date        time.Time
	Actor       Actor
}

// UpdateInput carries a partial expense update. Nil fields stay untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Amount      *decimal.Decimal
	Category    *enums.ExpenseCategory
	Type        *enums.ExpenseType
	Date        *time.Time
	Actor       Actor
}

// Filters narrows expense listings.
type Filters struct {
	Category *enums.ExpenseCategory
	Type     *enums.ExpenseType
	DateFrom *time.Time
	DateTo   *time.Time
}

// CategoryTotal is the summed amount for one category within a range.
type CategoryTotal struct {
	Category enums.ExpenseCategory `json:"category"`
	Total    decimal.Decimal       `json:"total"`
}

// TypeTotal is the summed amount for one expense type within a range.
type TypeTotal struct {
	Type  enums.ExpenseType `json:"type"`
	Total decimal.Decimal   `json:"total"`
}

// RangeStats summarizes expenses within a date range.
type RangeStats struct {
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
	ByCategory []CategoryTotal `json:"byCategory"`
	ByType     []TypeTotal     `json:"byType"`
}
