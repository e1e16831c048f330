package shoes

import (
	"github.com/dashty/shoe-store-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies who performed a mutation, for audit purposes.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// Filters describe the inputs supported by the shoe list.
type Filters struct {
	Category *enums.ShoeCategory
	Brand    string
	Search   string
}

// CreateInput carries a new catalog entry.
type CreateInput struct {
	Name        string
	Brand       string
	Category    enums.ShoeCategory
	Sizes       []string
	Price       decimal.Decimal
	CostPrice   decimal.Decimal
	SKU         string
	Description *string
	ImageURL    *string
	Actor       Actor
}

// UpdateInput carries partial catalog changes. Nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Brand       *string
	Category    *enums.ShoeCategory
	Sizes       []string
	Price       *decimal.Decimal
	CostPrice   *decimal.Decimal
	Description *string
	ImageURL    *string
	Actor       Actor
}
