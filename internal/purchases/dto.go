package purchases

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashty/shoe-store-backend/pkg/db/models"
)

// Actor identifies who performed a mutation, for the activity trail.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// CreateInput carries a new purchase. AddToStock also upserts the bought
// quantity into the stock table in the same transaction.
type CreateInput struct {
	SupplierID   uuid.UUID
	ShoeID       uuid.UUID
	Size         string
	Quantity     int
	UnitCost     decimal.Decimal
	IsCredit     bool
	PaidAmount   decimal.Decimal
	IsTodo       bool
	Notes        *string
	PurchaseDate time.Time
	AddToStock   bool
	Actor        Actor
}

// UpdateInput carries a partial purchase update. Nil fields stay untouched;
// changing UnitCost or Quantity recomputes TotalCost.
type UpdateInput struct {
	Size         *string
	Quantity     *int
	UnitCost     *decimal.Decimal
	IsCredit     *bool
	Notes        *string
	PurchaseDate *time.Time
	Actor        Actor
}

// Filters narrows purchase listings.
type Filters struct {
	SupplierID *uuid.UUID
	ShoeID     *uuid.UUID
	CreditOnly bool
	TodoOnly   bool
	DateFrom   *time.Time
	DateTo     *time.Time
}

// BalanceView is the purchase-level remaining debt.
type BalanceView struct {
	PurchaseID uuid.UUID       `json:"purchaseId"`
	TotalCost  decimal.Decimal `json:"totalCost"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// TodoGroup bundles one supplier's open todo purchases.
type TodoGroup struct {
	SupplierID   uuid.UUID         `json:"supplierId"`
	SupplierName string            `json:"supplierName"`
	Purchases    []models.Purchase `json:"purchases"`
}
